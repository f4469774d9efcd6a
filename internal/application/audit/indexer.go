package audit

import (
	"context"
	"log"
	"net/url"
	"os"
	"strings"

	domain "github.com/bryanwahyu/brand-audit/internal/domain/audit"
)

// jobHandles are the transient handles produced by submission and
// consumed by the poller; they never enter the audit state.
type jobHandles struct {
	visualJobID string
	speechName  string
}

// index is the first workflow node: acquire the video, submit both
// analysis jobs, poll until convergence, normalize. Any fault becomes
// the terminal failure shape.
func (s *Service) index(ctx context.Context, state *domain.AuditState) domain.Update {
	log.Printf("audit %s: processing video %s", state.VideoID, state.VideoURL)

	handles, err := s.acquireAndSubmit(ctx, state.VideoURL, state.VideoID)
	if err != nil {
		log.Printf("audit %s: indexing error: %v", state.VideoID, err)
		return domain.FailureUpdate(err.Error(), "Failed to index video: "+err.Error())
	}

	evidence := s.pollUntilConverged(ctx, handles)
	log.Printf("audit %s: extraction completed (status=%s, labels=%d)",
		state.VideoID, evidence.FinalStatus, len(evidence.VideoMetadata))
	return evidence.Update()
}

// acquireAndSubmit downloads the source video, uploads it under the
// session's deterministic key and starts both jobs. The scratch file is
// removed on every exit path. Submission is never retried here; only
// polling has a retry budget.
func (s *Service) acquireAndSubmit(ctx context.Context, videoURL, videoID string) (jobHandles, error) {
	if !supportedVideoURL(videoURL) {
		return jobHandles{}, domain.ErrInvalidVideoURL
	}

	localPath, err := s.Source.Download(ctx, videoURL)
	if err != nil {
		return jobHandles{}, &domain.StageError{Stage: "download", Err: err}
	}
	defer func() {
		if localPath != "" {
			if rmErr := os.Remove(localPath); rmErr != nil && !os.IsNotExist(rmErr) {
				log.Printf("warning: failed to remove scratch file %s: %v", localPath, rmErr)
			}
		}
	}()

	key := domain.ObjectKey(videoID)
	if _, err := s.Store.Upload(ctx, localPath, key); err != nil {
		return jobHandles{}, &domain.StageError{Stage: "upload", Err: err}
	}

	jobID, err := s.Labels.Submit(ctx, key)
	if err != nil {
		return jobHandles{}, &domain.StageError{Stage: "label-detection", Err: err}
	}

	jobName := domain.TranscriptionJobName(videoID)
	if err := s.Speech.Submit(ctx, key, jobName); err != nil {
		return jobHandles{}, &domain.StageError{Stage: "transcription", Err: err}
	}

	log.Printf("audit %s: analysis started (label job %s, transcription job %s)", videoID, jobID, jobName)
	return jobHandles{visualJobID: jobID, speechName: jobName}, nil
}

// supportedVideoURL gates on the recognized public-video-sharing hosts
// before any network call is made.
func supportedVideoURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "youtu.be" ||
		host == "youtube.com" || strings.HasSuffix(host, ".youtube.com")
}
