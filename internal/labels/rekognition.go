package labels

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

type rekognitionAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

type RekognitionDetector struct {
	client        rekognitionAPI
	maxLabels     int32
	minConfidence float32
	timeout       time.Duration
}

func NewRekognitionDetector(ctx context.Context, cfg RekognitionConfig) (*RekognitionDetector, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("aws region is required for rekognition")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newRekognitionDetector(rekognition.NewFromConfig(awsCfg), cfg), nil
}

func newRekognitionDetector(client rekognitionAPI, cfg RekognitionConfig) *RekognitionDetector {
	maxLabels := cfg.MaxLabels
	if maxLabels <= 0 {
		maxLabels = 10
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &RekognitionDetector{
		client:        client,
		maxLabels:     maxLabels,
		minConfidence: cfg.MinConfidence,
		timeout:       timeout,
	}
}

func (d *RekognitionDetector) DetectLabels(ctx context.Context, image []byte) ([]Label, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	out, err := d.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(d.maxLabels),
		MinConfidence: aws.Float32(d.minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition: %w", err)
	}

	labels := make([]Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		// Rekognition reports confidence as a percentage.
		labels = append(labels, Label{
			Description: aws.ToString(l.Name),
			Score:       aws.ToFloat32(l.Confidence) / 100,
		})
	}
	return labels, nil
}
