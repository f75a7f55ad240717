package labels

import "time"

type Label struct {
	Description string  `json:"description"`
	Score       float32 `json:"score"`
}

type Extraction struct {
	Labels    []Label
	FoodItems []string
	Matched   bool
}

func (e *Extraction) Descriptions() []string {
	out := make([]string, 0, len(e.Labels))
	for _, l := range e.Labels {
		out = append(out, l.Description)
	}
	return out
}

type Config struct {
	Keywords []string
	MinScore float32
}

type GoogleConfig struct {
	CredentialsFile string
	MaxResults      int
	Timeout         time.Duration
}

type RekognitionConfig struct {
	Region        string
	MaxLabels     int32
	MinConfidence float32
	Timeout       time.Duration
}
