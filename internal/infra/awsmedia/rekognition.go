package awsmedia

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	domain "github.com/bryanwahyu/brand-audit/internal/domain/audit"
)

// LabelDetector drives Rekognition asynchronous label detection against
// objects in the audit bucket.
type LabelDetector struct {
	client *rekognition.Client
	bucket string
}

func NewLabelDetector(cfg aws.Config, bucket string) *LabelDetector {
	return &LabelDetector{client: rekognition.NewFromConfig(cfg), bucket: bucket}
}

// Submit starts a label-detection job for the uploaded object and
// returns the job handle.
func (d *LabelDetector) Submit(ctx context.Context, key string) (string, error) {
	out, err := d.client.StartLabelDetection(ctx, &rekognition.StartLabelDetectionInput{
		Video: &rektypes.Video{
			S3Object: &rektypes.S3Object{
				Bucket: aws.String(d.bucket),
				Name:   aws.String(key),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("start label detection: %w", err)
	}
	return aws.ToString(out.JobId), nil
}

// Poll fetches the current job output. Non-terminal statuses come back
// as in_progress with whatever labels exist so far.
func (d *LabelDetector) Poll(ctx context.Context, jobID string) (domain.VisualResult, error) {
	out, err := d.client.GetLabelDetection(ctx, &rekognition.GetLabelDetectionInput{
		JobId: aws.String(jobID),
	})
	if err != nil {
		return domain.VisualResult{}, fmt.Errorf("get label detection: %w", err)
	}

	res := domain.VisualResult{Labels: make([]domain.Label, 0, len(out.Labels))}
	switch out.JobStatus {
	case rektypes.VideoJobStatusSucceeded:
		res.Status = domain.JobSucceeded
	case rektypes.VideoJobStatusFailed:
		res.Status = domain.JobFailed
	default:
		res.Status = domain.JobInProgress
	}

	for _, l := range out.Labels {
		entry := domain.Label{Timestamp: l.Timestamp}
		if l.Label != nil {
			entry.Name = aws.ToString(l.Label.Name)
			entry.Confidence = float64(aws.ToFloat32(l.Label.Confidence))
		}
		res.Labels = append(res.Labels, entry)
	}
	return res, nil
}
