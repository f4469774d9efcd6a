package audit

import (
	"context"
	"log"
	"time"

	domain "github.com/bryanwahyu/brand-audit/internal/domain/audit"
)

// Service runs the two-stage audit workflow:
//
//	Start -> Indexing -> Analysis -> End
//
// One AuditState per session, owned here; stages return partial Updates
// that are merged in between transitions. The edge from Indexing to
// Analysis is conditional: a failed indexing run terminates the session
// without invoking the analyzer.
type Service struct {
	Source    domain.VideoSource
	Store     domain.ObjectStore
	Labels    domain.LabelDetector
	Speech    domain.Transcriber
	Retriever domain.Retriever
	Model     domain.Reasoner

	Policy           RetryPolicy
	Sleeper          Sleeper
	RetrievalTopK    int
	RetrievalTimeout time.Duration
}

// RunAudit executes the workflow for one session and returns the final
// state verbatim. Stage faults never escape: they are folded into the
// state as errors with final_status "failed".
func (s *Service) RunAudit(ctx context.Context, videoURL, videoID string) domain.AuditState {
	state := domain.NewState(videoURL, videoID)

	state.Merge(s.index(ctx, &state))
	if state.FinalStatus == domain.StatusFailed {
		// explicit router: no analysis for a session that failed to index
		log.Printf("audit %s: indexing failed, skipping analysis", videoID)
		return state
	}

	state.Merge(s.analyze(ctx, &state))
	return state
}

func (s *Service) topK() int {
	if s.RetrievalTopK <= 0 {
		return 3
	}
	return s.RetrievalTopK
}

func (s *Service) retrievalTimeout() time.Duration {
	if s.RetrievalTimeout <= 0 {
		return 10 * time.Second
	}
	return s.RetrievalTimeout
}
