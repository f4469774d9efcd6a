package audit

import "testing"

func TestExtractStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		visual *VisualResult
		want   Status
	}{
		{"succeeded job", &VisualResult{Status: JobSucceeded}, StatusSuccess},
		{"failed job", &VisualResult{Status: JobFailed}, StatusFailed},
		{"running job", &VisualResult{Status: JobInProgress}, StatusProcessing},
		{"absent result", nil, StatusProcessing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Extract(tt.visual, "")
			if rec.FinalStatus != tt.want {
				t.Errorf("final status = %q, want %q", rec.FinalStatus, tt.want)
			}
		})
	}
}

func TestExtractKeepsSparseLabels(t *testing.T) {
	visual := &VisualResult{
		Status: JobSucceeded,
		Labels: []Label{
			{Name: "Product", Confidence: 98.2, Timestamp: 1500},
			{Name: "", Confidence: 0}, // missing fields pass through, never dropped
		},
	}

	rec := Extract(visual, "This product cures everything")

	if len(rec.VideoMetadata) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(rec.VideoMetadata))
	}
	if rec.VideoMetadata[0].Name != "Product" || rec.VideoMetadata[0].Confidence != 98.2 {
		t.Errorf("label mangled: %+v", rec.VideoMetadata[0])
	}
	if rec.Transcript != "This product cures everything" {
		t.Errorf("transcript = %q", rec.Transcript)
	}
	if rec.OCRText == nil || len(rec.OCRText) != 0 {
		t.Errorf("ocr text should be empty non-nil, got %#v", rec.OCRText)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	rec := Extract(&VisualResult{}, "")
	if rec.FinalStatus != StatusProcessing {
		t.Errorf("status = %q", rec.FinalStatus)
	}
	if len(rec.VideoMetadata) != 0 {
		t.Errorf("metadata = %+v", rec.VideoMetadata)
	}
}

func TestDeterministicNames(t *testing.T) {
	if got := ObjectKey("abc12345"); got != "videos/abc12345.mp4" {
		t.Errorf("object key = %q", got)
	}
	if got := TranscriptionJobName("abc12345"); got != "audit_abc12345" {
		t.Errorf("job name = %q", got)
	}
}
