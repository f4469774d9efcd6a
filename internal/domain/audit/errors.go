package audit

import "errors"

// ErrInvalidVideoURL indicates the input did not match a recognized
// public-video-sharing URL, checked before any network call.
var ErrInvalidVideoURL = errors.New("please provide a valid youtube URL")

// StageError wraps a failure from one step of acquisition or submission
// so callers can report which step broke.
type StageError struct {
	Stage string // download | upload | label-detection | transcription
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }
