package audit

import (
	"context"
	"log"
	"time"

	domain "github.com/bryanwahyu/brand-audit/internal/domain/audit"
)

// RetryPolicy bounds the convergence poll. The interval is fixed; the
// external jobs take tens of seconds to minutes, so backoff buys
// nothing.
type RetryPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Interval <= 0 {
		p.Interval = 10 * time.Second
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 30
	}
	return p
}

// Sleeper paces the polling loop. Tests inject a zero-delay fake.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// WaitSleeper is the default Sleeper; it honors context cancellation
// between cycles.
type WaitSleeper struct{}

func (WaitSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// pollUntilConverged queries both jobs sequentially on a fixed interval
// until the visual job is terminal and a transcript exists, or the
// attempt budget runs out. A job that already reached a terminal state
// is not queried again. Exhaustion is a soft timeout: whatever partial
// evidence exists is normalized with status "processing", so callers can
// tell it apart from a hard failure.
func (s *Service) pollUntilConverged(ctx context.Context, h jobHandles) domain.EvidenceRecord {
	policy := s.Policy.withDefaults()
	sleeper := s.Sleeper
	if sleeper == nil {
		sleeper = WaitSleeper{}
	}

	var visual *domain.VisualResult
	transcript := ""

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := sleeper.Sleep(ctx, policy.Interval); err != nil {
			log.Printf("audit poll cancelled: %v", err)
			break
		}

		if visual == nil || !visual.Status.Terminal() {
			res, err := s.Labels.Poll(ctx, h.visualJobID)
			if err != nil {
				log.Printf("label job %s poll error: %v", h.visualJobID, err)
			} else {
				visual = &res
			}
		}

		if transcript == "" {
			res, err := s.Speech.Poll(ctx, h.speechName)
			switch {
			case err != nil:
				log.Printf("transcription job %s poll error: %v", h.speechName, err)
			case res.Status == domain.JobFailed:
				log.Printf("transcription job %s failed: %s", h.speechName, res.FailureReason)
			default:
				transcript = res.Transcript
			}
		}

		if visual != nil && visual.Status.Terminal() && transcript != "" {
			break
		}
		log.Printf("still processing... (attempt %d/%d)", attempt, policy.MaxAttempts)
	}

	return domain.Extract(visual, transcript)
}
