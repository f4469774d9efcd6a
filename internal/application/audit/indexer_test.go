package audit

import (
	"context"
	"errors"
	"os"
	"testing"

	domain "github.com/bryanwahyu/brand-audit/internal/domain/audit"
)

func TestSupportedVideoURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://youtu.be/yx39ed__8ZA", true},
		{"https://www.youtube.com/watch?v=yx39ed__8ZA", true},
		{"https://youtube.com/watch?v=abc", true},
		{"http://m.youtube.com/watch?v=abc", true},
		{"not-a-video-url", false},
		{"https://vimeo.com/12345", false},
		{"https://evilyoutube.com/watch", false},
		{"ftp://youtube.com/file", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := supportedVideoURL(tt.url); got != tt.want {
			t.Errorf("supportedVideoURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestAcquireRejectsBadURLBeforeAnyCall(t *testing.T) {
	svc, source, _, _, _, _, _ := newTestService(t)

	_, err := svc.acquireAndSubmit(context.Background(), "not-a-video-url", "abc12345")

	if !errors.Is(err, domain.ErrInvalidVideoURL) {
		t.Fatalf("err = %v, want ErrInvalidVideoURL", err)
	}
	if source.downloads != 0 {
		t.Errorf("download attempted for invalid URL")
	}
}

func TestAcquireUsesDeterministicNames(t *testing.T) {
	svc, _, store, labels, speech, _, _ := newTestService(t)

	h, err := svc.acquireAndSubmit(context.Background(), "https://youtu.be/ID123", "abc12345")
	if err != nil {
		t.Fatalf("acquireAndSubmit: %v", err)
	}

	if len(store.uploads) != 1 || store.uploads[0] != "videos/abc12345.mp4" {
		t.Errorf("uploads = %v", store.uploads)
	}
	if len(labels.submits) != 1 || labels.submits[0] != "videos/abc12345.mp4" {
		t.Errorf("label submits = %v", labels.submits)
	}
	if len(speech.submits) != 1 || speech.submits[0] != "audit_abc12345" {
		t.Errorf("speech submits = %v", speech.submits)
	}
	if h.visualJobID == "" || h.speechName != "audit_abc12345" {
		t.Errorf("handles = %+v", h)
	}
}

func TestAcquireResubmissionSameSession(t *testing.T) {
	svc, _, store, _, speech, _, _ := newTestService(t)

	for i := 0; i < 2; i++ {
		if _, err := svc.acquireAndSubmit(context.Background(), "https://youtu.be/ID123", "abc12345"); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	// same key and same job name both times: overwrite, not duplicate
	if store.uploads[0] != store.uploads[1] {
		t.Errorf("storage keys differ across runs: %v", store.uploads)
	}
	if speech.submits[0] != speech.submits[1] {
		t.Errorf("job names differ across runs: %v", speech.submits)
	}
}

func TestScratchFileRemovedOnSuccess(t *testing.T) {
	svc, source, _, _, _, _, _ := newTestService(t)

	if _, err := svc.acquireAndSubmit(context.Background(), "https://youtu.be/ID123", "abc12345"); err != nil {
		t.Fatalf("acquireAndSubmit: %v", err)
	}

	if _, err := os.Stat(source.lastPath); !os.IsNotExist(err) {
		t.Errorf("scratch file %s still exists", source.lastPath)
	}
}

func TestScratchFileRemovedOnFailure(t *testing.T) {
	svc, source, store, _, _, _, _ := newTestService(t)
	store.err = errBoom

	_, err := svc.acquireAndSubmit(context.Background(), "https://youtu.be/ID123", "abc12345")

	var stageErr *domain.StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != "upload" {
		t.Fatalf("err = %v, want upload StageError", err)
	}
	if _, statErr := os.Stat(source.lastPath); !os.IsNotExist(statErr) {
		t.Errorf("scratch file %s leaked on failure path", source.lastPath)
	}
}

func TestAcquireStageErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeSource, *fakeStore, *fakeLabels, *fakeSpeech)
		stage string
	}{
		{"download", func(src *fakeSource, _ *fakeStore, _ *fakeLabels, _ *fakeSpeech) { src.err = errBoom }, "download"},
		{"upload", func(_ *fakeSource, st *fakeStore, _ *fakeLabels, _ *fakeSpeech) { st.err = errBoom }, "upload"},
		{"label submission", func(_ *fakeSource, _ *fakeStore, l *fakeLabels, _ *fakeSpeech) { l.submitErr = errBoom }, "label-detection"},
		{"speech submission", func(_ *fakeSource, _ *fakeStore, _ *fakeLabels, sp *fakeSpeech) { sp.submitErr = errBoom }, "transcription"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, source, store, labels, speech, _, _ := newTestService(t)
			tt.setup(source, store, labels, speech)

			_, err := svc.acquireAndSubmit(context.Background(), "https://youtu.be/ID123", "abc12345")

			var stageErr *domain.StageError
			if !errors.As(err, &stageErr) {
				t.Fatalf("err = %v, want StageError", err)
			}
			if stageErr.Stage != tt.stage {
				t.Errorf("stage = %q, want %q", stageErr.Stage, tt.stage)
			}
			if !errors.Is(err, errBoom) {
				t.Errorf("cause not wrapped: %v", err)
			}
		})
	}
}

func TestIndexFailureProducesTerminalUpdate(t *testing.T) {
	svc, _, _, _, _, _, _ := newTestService(t)
	state := domain.NewState("not-a-video-url", "abc12345")

	update := svc.index(context.Background(), &state)
	state.Merge(update)

	if state.FinalStatus != domain.StatusFailed {
		t.Errorf("status = %q, want failed", state.FinalStatus)
	}
	if len(state.Error) != 1 {
		t.Errorf("error = %v", state.Error)
	}
	if state.Transcript != "" || len(state.VideoMetadata) != 0 {
		t.Errorf("failure update did not reset extraction fields: %+v", state)
	}
}
