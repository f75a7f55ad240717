package dto

type LabelResponse struct {
	Description string  `json:"description" example:"Banana"`
	Score       float32 `json:"score,omitempty" example:"0.93"`
}

type FailureResponse struct {
	Kind    string `json:"kind" example:"generation"`
	Message string `json:"message" example:"generate content: context deadline exceeded"`
}

type AnalysisResponse struct {
	ID            string           `json:"id" example:"ana_3f2b9c0d1e4a4f7b8c6d5e4f3a2b1c0d"`
	Status        string           `json:"status" example:"succeeded"`
	DetectedItems string           `json:"detected_items" example:"Food, Banana"`
	FoodItems     []string         `json:"food_items"`
	Matched       bool             `json:"matched" example:"true"`
	Labels        []LabelResponse  `json:"labels"`
	Report        string           `json:"report,omitempty"`
	Text          string           `json:"text"`
	Failure       *FailureResponse `json:"failure,omitempty"`
	Cached        bool             `json:"cached"`
	LatencyMs     int64            `json:"latency_ms" example:"1830"`
	ArchiveKey    string           `json:"archive_key,omitempty"`
	CreatedAt     string           `json:"created_at" example:"2024-01-15T14:00:00Z"`
}

type AnalysisListResponse struct {
	Total    int                `json:"total" example:"2"`
	Analyses []AnalysisResponse `json:"analyses"`
}

type MetricsResponse struct {
	Date           string           `json:"date" example:"2024-01-15"`
	Hour           int              `json:"hour" example:"14"`
	Analyses       int64            `json:"analyses" example:"120"`
	Failures       int64            `json:"failures" example:"4"`
	CacheHits      int64            `json:"cache_hits" example:"30"`
	AvgLatencyMs   int64            `json:"avg_latency_ms" example:"1500"`
	FailuresByKind map[string]int64 `json:"failures_by_kind,omitempty"`
}

type MetricsListResponse struct {
	Hours   int               `json:"hours" example:"24"`
	Metrics []MetricsResponse `json:"metrics"`
}
