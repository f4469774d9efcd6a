package audit

import "testing"

func TestMergeAppendsIssuesAndErrors(t *testing.T) {
	state := NewState("https://youtu.be/ID123", "abc12345")

	state.Merge(Update{
		ComplianceResult: []ComplianceIssue{{Category: "Claims", Severity: SeverityCritical, Description: "unsupported health claim"}},
		Error:            []string{"first"},
	})
	state.Merge(Update{
		ComplianceResult: []ComplianceIssue{{Category: "Logo", Severity: SeverityWarning, Description: "wrong logo variant"}},
		Error:            []string{"second"},
	})

	if len(state.ComplianceResult) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(state.ComplianceResult))
	}
	if state.ComplianceResult[0].Category != "Claims" || state.ComplianceResult[1].Category != "Logo" {
		t.Errorf("issues out of order: %+v", state.ComplianceResult)
	}
	if len(state.Error) != 2 || state.Error[0] != "first" || state.Error[1] != "second" {
		t.Errorf("errors not accumulated: %v", state.Error)
	}
}

func TestMergeOverwriteFields(t *testing.T) {
	state := NewState("https://youtu.be/ID123", "abc12345")

	state.Merge(Update{
		Transcript:    StringPtr("hello"),
		VideoMetadata: []Label{{Name: "Product", Confidence: 98.2}},
		FinalStatus:   StatusProcessing,
	})
	state.Merge(Update{
		Transcript:  StringPtr("hello again"),
		FinalStatus: StatusSuccess,
		FinalReport: StringPtr("all good"),
	})

	if state.Transcript != "hello again" {
		t.Errorf("transcript = %q, want overwrite", state.Transcript)
	}
	if state.FinalStatus != StatusSuccess {
		t.Errorf("final status = %q", state.FinalStatus)
	}
	if state.FinalReport != "all good" {
		t.Errorf("final report = %q", state.FinalReport)
	}
	// second update carried no metadata: previous write must survive
	if len(state.VideoMetadata) != 1 || state.VideoMetadata[0].Name != "Product" {
		t.Errorf("metadata clobbered: %+v", state.VideoMetadata)
	}
}

func TestMergeZeroUpdateTouchesNothing(t *testing.T) {
	state := NewState("https://youtu.be/ID123", "abc12345")
	state.Merge(Update{Transcript: StringPtr("keep"), FinalStatus: StatusProcessing})

	state.Merge(Update{})

	if state.Transcript != "keep" || state.FinalStatus != StatusProcessing {
		t.Errorf("zero update mutated state: %+v", state)
	}
	if state.VideoID != "abc12345" || state.VideoURL != "https://youtu.be/ID123" {
		t.Errorf("identity fields changed: %+v", state)
	}
}

func TestFailureUpdateShape(t *testing.T) {
	state := NewState("https://youtu.be/ID123", "abc12345")
	state.Merge(Update{Transcript: StringPtr("stale"), VideoMetadata: []Label{{Name: "x"}}})

	state.Merge(FailureUpdate("boom", "Failed to index video: boom"))

	if state.FinalStatus != StatusFailed {
		t.Errorf("status = %q, want failed", state.FinalStatus)
	}
	if state.Transcript != "" {
		t.Errorf("transcript should be reset, got %q", state.Transcript)
	}
	if len(state.VideoMetadata) != 0 || len(state.OCRText) != 0 {
		t.Errorf("extraction fields should be reset: %+v", state)
	}
	if len(state.Error) != 1 || state.Error[0] != "boom" {
		t.Errorf("error = %v", state.Error)
	}
	if state.FinalReport != "Failed to index video: boom" {
		t.Errorf("report = %q", state.FinalReport)
	}
}
