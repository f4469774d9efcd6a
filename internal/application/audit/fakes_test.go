package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	domain "github.com/bryanwahyu/brand-audit/internal/domain/audit"
)

// fakes for every port, shared by the stage and workflow tests

type fakeSource struct {
	t         *testing.T
	err       error
	downloads int
	lastPath  string
}

func (f *fakeSource) Download(ctx context.Context, url string) (string, error) {
	f.downloads++
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(f.t.TempDir(), "scratch.mp4")
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		f.t.Fatalf("write scratch: %v", err)
	}
	f.lastPath = path
	return path, nil
}

type fakeStore struct {
	err     error
	uploads []string // keys
}

func (f *fakeStore) Upload(ctx context.Context, localPath, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, key)
	return "s3://test-bucket/" + key, nil
}

type fakeLabels struct {
	submitErr error
	jobID     string
	results   []domain.VisualResult // consumed one per poll; last repeats
	pollErr   error
	submits   []string // keys
	polls     int
}

func (f *fakeLabels) Submit(ctx context.Context, key string) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submits = append(f.submits, key)
	if f.jobID == "" {
		f.jobID = "job-1"
	}
	return f.jobID, nil
}

func (f *fakeLabels) Poll(ctx context.Context, jobID string) (domain.VisualResult, error) {
	f.polls++
	if f.pollErr != nil {
		return domain.VisualResult{}, f.pollErr
	}
	if len(f.results) == 0 {
		return domain.VisualResult{Status: domain.JobInProgress}, nil
	}
	res := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return res, nil
}

type fakeSpeech struct {
	submitErr error
	results   []domain.SpeechResult // consumed one per poll; last repeats
	pollErr   error
	submits   []string // job names
	polls     int
}

func (f *fakeSpeech) Submit(ctx context.Context, key, jobName string) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submits = append(f.submits, jobName)
	return nil
}

func (f *fakeSpeech) Poll(ctx context.Context, jobName string) (domain.SpeechResult, error) {
	f.polls++
	if f.pollErr != nil {
		return domain.SpeechResult{}, f.pollErr
	}
	if len(f.results) == 0 {
		return domain.SpeechResult{Status: domain.JobInProgress}, nil
	}
	res := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return res, nil
}

type fakeRetriever struct {
	docs    []string
	err     error
	queries []string
	lastK   int
}

func (f *fakeRetriever) Search(ctx context.Context, query string, k int) ([]string, error) {
	f.queries = append(f.queries, query)
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type fakeModel struct {
	response   string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeModel) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// noSleep makes the polling loop run full speed in tests.
type noSleep struct{}

func (noSleep) Sleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

var errBoom = errors.New("boom")

func newTestService(t *testing.T) (*Service, *fakeSource, *fakeStore, *fakeLabels, *fakeSpeech, *fakeRetriever, *fakeModel) {
	t.Helper()
	source := &fakeSource{t: t}
	store := &fakeStore{}
	labels := &fakeLabels{}
	speech := &fakeSpeech{}
	retriever := &fakeRetriever{}
	model := &fakeModel{response: `{"compliance_result": [], "final_status": "success", "final_report": "Clean."}`}
	svc := &Service{
		Source:    source,
		Store:     store,
		Labels:    labels,
		Speech:    speech,
		Retriever: retriever,
		Model:     model,
		Policy:    RetryPolicy{Interval: time.Millisecond, MaxAttempts: 5},
		Sleeper:   noSleep{},
	}
	return svc, source, store, labels, speech, retriever, model
}
