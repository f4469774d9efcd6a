package audit

import "fmt"

// JobState of an asynchronous analysis job.
type JobState string

const (
	JobInProgress JobState = "in_progress"
	JobSucceeded  JobState = "succeeded"
	JobFailed     JobState = "failed"
)

// Terminal reports whether the job will make no further progress.
func (s JobState) Terminal() bool {
	return s == JobSucceeded || s == JobFailed
}

// VisualResult is the raw output of one label-detection poll, before
// normalization.
type VisualResult struct {
	Status JobState
	Labels []Label
}

// SpeechResult is the raw output of one transcription poll.
type SpeechResult struct {
	Status        JobState
	Transcript    string
	FailureReason string
}

// EvidenceRecord is the normalized output of both analysis jobs, the
// canonical shape the analysis stage consumes.
type EvidenceRecord struct {
	Transcript    string
	OCRText       []string
	VideoMetadata []Label
	FinalStatus   Status
}

// Extract normalizes a raw visual-job result and a transcript into an
// EvidenceRecord. It is a pure transform: no I/O, and malformed or
// absent input degrades to empty collections. Label entries with missing
// name or confidence are kept with zero values rather than dropped.
func Extract(visual *VisualResult, transcript string) EvidenceRecord {
	rec := EvidenceRecord{
		Transcript:    transcript,
		OCRText:       []string{}, // reserved for on-screen text detection
		VideoMetadata: []Label{},
		FinalStatus:   StatusProcessing,
	}
	if visual == nil {
		return rec
	}
	rec.VideoMetadata = append(rec.VideoMetadata, visual.Labels...)
	switch visual.Status {
	case JobSucceeded:
		rec.FinalStatus = StatusSuccess
	case JobFailed:
		rec.FinalStatus = StatusFailed
	default:
		rec.FinalStatus = StatusProcessing
	}
	return rec
}

// Update converts the record into a partial state write.
func (e EvidenceRecord) Update() Update {
	return Update{
		VideoMetadata: e.VideoMetadata,
		Transcript:    &e.Transcript,
		OCRText:       e.OCRText,
		FinalStatus:   e.FinalStatus,
	}
}

// ObjectKey is the deterministic storage key for a session's video, so a
// re-run for the same session overwrites instead of duplicating.
func ObjectKey(videoID string) string {
	return fmt.Sprintf("videos/%s.mp4", videoID)
}

// TranscriptionJobName is the deterministic job name for a session's
// transcription job. Resubmission deletes any job with this name first.
func TranscriptionJobName(videoID string) string {
	return "audit_" + videoID
}
