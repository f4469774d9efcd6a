package audit

// Status enum for a session and for the final verdict.
type Status string

const (
	StatusSuccess    Status = "success"
	StatusWarning    Status = "warning"
	StatusFailed     Status = "failed"
	StatusProcessing Status = "processing"
)

// Severity enum for compliance issues.
type Severity string

const (
	SeverityInfo     Severity = "Info"
	SeverityWarning  Severity = "Warning"
	SeverityCritical Severity = "Critical"
)

// ComplianceIssue is one detected violation. Produced only by the
// analysis stage and never mutated afterwards.
type ComplianceIssue struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Timestamp   string   `json:"timestamp,omitempty"`
	Suggestion  string   `json:"suggestion"`
}

// Label is one normalized visual-detection entry.
type Label struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Timestamp  int64   `json:"timestamp"`
}

// AuditState is the single mutable record threaded through the workflow
// for one session. Stages never touch it directly; they return an Update
// and the workflow merges it in.
type AuditState struct {
	VideoURL string `json:"video_url"`
	VideoID  string `json:"video_id"`

	VideoMetadata []Label  `json:"video_metadata"`
	Transcript    string   `json:"transcript"`
	OCRText       []string `json:"ocr_text"`

	ComplianceResult []ComplianceIssue `json:"compliance_result"`
	Error            []string          `json:"error"`

	FinalStatus Status `json:"final_status"`
	FinalReport string `json:"final_report"`
}

// NewState seeds a session. VideoURL and VideoID are immutable from here
// on: Update carries no fields for them.
func NewState(videoURL, videoID string) AuditState {
	return AuditState{
		VideoURL:         videoURL,
		VideoID:          videoID,
		OCRText:          []string{},
		VideoMetadata:    []Label{},
		ComplianceResult: []ComplianceIssue{},
		Error:            []string{},
	}
}

// Update is a partial write against an AuditState.
//
// Merge policy per field:
//
//	ComplianceResult, Error        append (accumulate across stages)
//	Transcript, FinalReport        overwrite when non-nil
//	VideoMetadata, OCRText         overwrite when non-nil
//	FinalStatus                    overwrite when non-empty
type Update struct {
	VideoMetadata []Label
	Transcript    *string
	OCRText       []string

	ComplianceResult []ComplianceIssue
	Error            []string

	FinalStatus Status
	FinalReport *string
}

// Merge applies u to the state following the policy table above.
func (s *AuditState) Merge(u Update) {
	if u.VideoMetadata != nil {
		s.VideoMetadata = u.VideoMetadata
	}
	if u.Transcript != nil {
		s.Transcript = *u.Transcript
	}
	if u.OCRText != nil {
		s.OCRText = u.OCRText
	}
	s.ComplianceResult = append(s.ComplianceResult, u.ComplianceResult...)
	s.Error = append(s.Error, u.Error...)
	if u.FinalStatus != "" {
		s.FinalStatus = u.FinalStatus
	}
	if u.FinalReport != nil {
		s.FinalReport = *u.FinalReport
	}
}

// FailureUpdate is the terminal failure shape a stage returns when it
// cannot produce usable evidence: the extraction fields are reset to
// empty, the error is recorded, and the status goes to failed.
func FailureUpdate(errMsg, report string) Update {
	empty := ""
	return Update{
		VideoMetadata:    []Label{},
		Transcript:       &empty,
		OCRText:          []string{},
		ComplianceResult: []ComplianceIssue{},
		Error:            []string{errMsg},
		FinalStatus:      StatusFailed,
		FinalReport:      &report,
	}
}

// StringPtr is a small helper for building Updates.
func StringPtr(s string) *string { return &s }
