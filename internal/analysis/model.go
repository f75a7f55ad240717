package analysis

import (
	"time"

	"github.com/eleven-am/calorie-advisor/internal/labels"
	"github.com/eleven-am/calorie-advisor/internal/shared"
)

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type Record struct {
	ID             string             `gorm:"primaryKey" json:"id"`
	ImageHash      string             `gorm:"not null;index" json:"image_hash"`
	ContentType    string             `gorm:"not null" json:"content_type"`
	Filename       string             `json:"filename,omitempty"`
	SizeBytes      int64              `json:"size_bytes"`
	Labels         shared.StringSlice `gorm:"type:text" json:"labels"`
	FoodItems      shared.StringSlice `gorm:"type:text" json:"food_items"`
	Matched        bool               `json:"matched"`
	Report         string             `gorm:"type:text" json:"report,omitempty"`
	Status         Status             `gorm:"not null;index" json:"status"`
	FailureKind    Kind               `gorm:"index" json:"failure_kind,omitempty"`
	FailureMessage string             `json:"failure_message,omitempty"`
	Cached         bool               `json:"cached"`
	LatencyMs      int64              `json:"latency_ms"`
	ArchiveKey     string             `json:"archive_key,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	result Result
}

func (Record) TableName() string {
	return "analyses"
}

// Result returns the pipeline result the record was built from, or a
// reconstruction when the record was loaded from the database.
func (r *Record) Result() Result {
	if r.result.Report != "" || r.result.Failure != nil || len(r.result.Labels) > 0 {
		return r.result
	}

	res := Result{
		FoodItems: r.FoodItems,
		Matched:   r.Matched,
		Report:    r.Report,
	}
	for _, d := range r.Labels {
		res.Labels = append(res.Labels, labels.Label{Description: d})
	}
	if r.Status == StatusFailed {
		res.Failure = &Failure{Kind: r.FailureKind, Message: r.FailureMessage}
	}
	return res
}

func newRecord(id string, up Upload, hash string, res Result) *Record {
	rec := &Record{
		ID:          id,
		ImageHash:   hash,
		ContentType: up.ContentType,
		Filename:    up.Filename,
		SizeBytes:   int64(len(up.Data)),
		FoodItems:   res.FoodItems,
		Matched:     res.Matched,
		Report:      res.Report,
		Status:      StatusSucceeded,
		CreatedAt:   time.Now(),
		result:      res,
	}
	for _, l := range res.Labels {
		rec.Labels = append(rec.Labels, l.Description)
	}
	if res.Failure != nil {
		rec.Status = StatusFailed
		rec.FailureKind = res.Failure.Kind
		rec.FailureMessage = res.Failure.Message
	}
	return rec
}
