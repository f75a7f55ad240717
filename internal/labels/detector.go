package labels

import "context"

// Detector returns label annotations for an encoded JPEG or PNG image.
type Detector interface {
	DetectLabels(ctx context.Context, image []byte) ([]Label, error)
}

const (
	ProviderGoogle      = "google"
	ProviderRekognition = "rekognition"
)
