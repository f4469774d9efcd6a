package awsmedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	trtypes "github.com/aws/aws-sdk-go-v2/service/transcribe/types"

	domain "github.com/bryanwahyu/brand-audit/internal/domain/audit"
)

// Transcriber drives Transcribe jobs against objects in the audit
// bucket and fetches the finished transcript document.
type Transcriber struct {
	client     *transcribe.Client
	bucket     string
	language   string
	httpClient *http.Client
}

func NewTranscriber(cfg aws.Config, bucket, language string) *Transcriber {
	if language == "" {
		language = "en-US"
	}
	return &Transcriber{
		client:     transcribe.NewFromConfig(cfg),
		bucket:     bucket,
		language:   language,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Submit starts a transcription job under the session's deterministic
// name. A leftover job with the same name is deleted first so
// resubmission never collides.
func (t *Transcriber) Submit(ctx context.Context, key, jobName string) error {
	// best effort: the job usually does not exist
	_, _ = t.client.DeleteTranscriptionJob(ctx, &transcribe.DeleteTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
	})

	mediaURI := fmt.Sprintf("s3://%s/%s", t.bucket, key)
	_, err := t.client.StartTranscriptionJob(ctx, &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
		Media:                &trtypes.Media{MediaFileUri: aws.String(mediaURI)},
		MediaFormat:          trtypes.MediaFormatMp4,
		LanguageCode:         trtypes.LanguageCode(t.language),
	})
	if err != nil {
		return fmt.Errorf("start transcription job: %w", err)
	}
	return nil
}

// Poll reports the job status; on completion it downloads the
// transcript document and returns the flattened text.
func (t *Transcriber) Poll(ctx context.Context, jobName string) (domain.SpeechResult, error) {
	out, err := t.client.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
	})
	if err != nil {
		return domain.SpeechResult{}, fmt.Errorf("get transcription job: %w", err)
	}
	job := out.TranscriptionJob
	if job == nil {
		return domain.SpeechResult{Status: domain.JobInProgress}, nil
	}

	switch job.TranscriptionJobStatus {
	case trtypes.TranscriptionJobStatusCompleted:
		if job.Transcript == nil || job.Transcript.TranscriptFileUri == nil {
			return domain.SpeechResult{Status: domain.JobFailed, FailureReason: "completed job has no transcript URI"}, nil
		}
		text, err := t.fetchTranscript(ctx, aws.ToString(job.Transcript.TranscriptFileUri))
		if err != nil {
			return domain.SpeechResult{}, err
		}
		return domain.SpeechResult{Status: domain.JobSucceeded, Transcript: text}, nil
	case trtypes.TranscriptionJobStatusFailed:
		return domain.SpeechResult{
			Status:        domain.JobFailed,
			FailureReason: aws.ToString(job.FailureReason),
		}, nil
	default:
		return domain.SpeechResult{Status: domain.JobInProgress}, nil
	}
}

// transcriptDocument is the subset of the Transcribe output file we
// read.
type transcriptDocument struct {
	Results struct {
		Transcripts []struct {
			Transcript string `json:"transcript"`
		} `json:"transcripts"`
	} `json:"results"`
}

func (t *Transcriber) fetchTranscript(ctx context.Context, uri string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", err
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch transcript: unexpected status %d", resp.StatusCode)
	}

	var doc transcriptDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode transcript document: %w", err)
	}
	if len(doc.Results.Transcripts) == 0 {
		return "", nil
	}
	return doc.Results.Transcripts[0].Transcript, nil
}
