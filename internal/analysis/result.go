package analysis

import (
	"github.com/eleven-am/calorie-advisor/internal/labels"
	"github.com/eleven-am/calorie-advisor/internal/nutrition"
)

type Kind string

const (
	KindInvalidInput   Kind = "invalid_input"
	KindLabelDetection Kind = "label_detection"
	KindGeneration     Kind = "generation"
)

type Failure struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Result is either a success carrying Report or a failure carrying Failure.
// Labels and FoodItems are populated whenever extraction got that far.
// Matched is false when no label matched a food keyword and FoodItems holds
// only the placeholder.
type Result struct {
	Labels    []labels.Label `json:"labels,omitempty"`
	FoodItems []string       `json:"food_items,omitempty"`
	Matched   bool           `json:"matched"`
	Report    string         `json:"report,omitempty"`
	Failure   *Failure       `json:"failure,omitempty"`
}

func Fail(kind Kind, err error) Result {
	return Result{Failure: &Failure{Kind: kind, Message: err.Error()}}
}

func (r Result) OK() bool {
	return r.Failure == nil
}

func (r Result) Kind() Kind {
	if r.Failure == nil {
		return ""
	}
	return r.Failure.Kind
}

// Text renders the result for display: the report on success, otherwise the
// user-facing failure line.
func (r Result) Text() string {
	if r.Failure == nil {
		return r.Report
	}
	switch r.Failure.Kind {
	case KindLabelDetection:
		return labels.ErrorPrefix + ": " + r.Failure.Message
	case KindGeneration:
		return nutrition.ErrorMarker + ": " + r.Failure.Message
	default:
		return "Invalid image: " + r.Failure.Message
	}
}
