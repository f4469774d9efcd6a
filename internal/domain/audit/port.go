package audit

import "context"

// VideoSource port (download of the source media)
type VideoSource interface {
	Download(ctx context.Context, url string) (localPath string, err error)
}

// ObjectStore port (upload of the scratch file)
type ObjectStore interface {
	Upload(ctx context.Context, localPath, key string) (url string, err error)
}

// LabelDetector port (asynchronous visual-analysis job)
type LabelDetector interface {
	Submit(ctx context.Context, key string) (jobID string, err error)
	Poll(ctx context.Context, jobID string) (VisualResult, error)
}

// Transcriber port (asynchronous speech-to-text job)
type Transcriber interface {
	Submit(ctx context.Context, key, jobName string) error
	Poll(ctx context.Context, jobName string) (SpeechResult, error)
}

// Retriever port (vector similarity search over rule passages)
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]string, error)
}

// Reasoner port (generative model invocation)
type Reasoner interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
