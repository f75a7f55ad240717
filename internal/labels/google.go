package labels

import (
	"context"
	"errors"
	"fmt"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type imageAnnotator interface {
	AnnotateImage(ctx context.Context, req *visionpb.AnnotateImageRequest, opts ...gax.CallOption) (*visionpb.AnnotateImageResponse, error)
	Close() error
}

type GoogleDetector struct {
	client     imageAnnotator
	maxResults int32
	timeout    time.Duration
}

func NewGoogleDetector(ctx context.Context, cfg GoogleConfig) (*GoogleDetector, error) {
	if cfg.CredentialsFile == "" {
		return nil, errors.New("vision credentials file is required")
	}

	client, err := vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create vision client: %w", err)
	}

	return newGoogleDetector(client, cfg), nil
}

func newGoogleDetector(client imageAnnotator, cfg GoogleConfig) *GoogleDetector {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &GoogleDetector{
		client:     client,
		maxResults: int32(maxResults),
		timeout:    timeout,
	}
}

func (d *GoogleDetector) DetectLabels(ctx context.Context, image []byte) ([]Label, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	res, err := d.client.AnnotateImage(ctx, &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: image},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: d.maxResults},
		},
	})
	if err != nil {
		return nil, describeStatus(err)
	}
	if res.GetError() != nil && res.GetError().GetCode() != int32(codes.OK) {
		return nil, describeStatus(status.ErrorProto(res.GetError()))
	}

	out := make([]Label, 0, len(res.GetLabelAnnotations()))
	for _, a := range res.GetLabelAnnotations() {
		out = append(out, Label{
			Description: a.GetDescription(),
			Score:       a.GetScore(),
		})
	}
	return out, nil
}

func (d *GoogleDetector) Close() error {
	return d.client.Close()
}

func describeStatus(err error) error {
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("vision auth: %w", err)
	case codes.DeadlineExceeded, codes.Unavailable:
		return fmt.Errorf("vision transport: %w", err)
	case codes.InvalidArgument:
		return fmt.Errorf("vision rejected image: %w", err)
	default:
		return fmt.Errorf("vision: %w", err)
	}
}
