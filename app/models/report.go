package models

import "time"

type IssueType string

const (
	IssueError   IssueType = "error"
	IssueWarning IssueType = "warning"
	IssueInfo    IssueType = "info"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type MetricStatus string

const (
	StatusGood    MetricStatus = "good"
	StatusWarning MetricStatus = "warning"
	StatusError   MetricStatus = "error"
)

type Issue struct {
	Type        IssueType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

type Recommendation struct {
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

type Metric struct {
	Metric string       `json:"metric"`
	Value  string       `json:"value"`
	Status MetricStatus `json:"status"`
}

// Analysis is the structured assessment returned by a model provider.
type Analysis struct {
	Score           int              `json:"score"`
	Issues          []Issue          `json:"issues"`
	Recommendations []Recommendation `json:"recommendations"`
	Performance     []Metric         `json:"performance"`
}

// Report is an immutable, persisted analysis.
type Report struct {
	ID              string           `db:"id" json:"id"`
	UserID          string           `db:"user_id" json:"user_id"`
	URL             string           `db:"url" json:"url"`
	Score           int              `db:"score" json:"score"`
	Issues          []Issue          `db:"issues" json:"issues"`
	Recommendations []Recommendation `db:"recommendations" json:"recommendations"`
	Performance     []Metric         `db:"performance" json:"performance"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
}

func NewReport(userID, url string, a Analysis, now time.Time) Report {
	return Report{
		UserID:          userID,
		URL:             url,
		Score:           a.Score,
		Issues:          a.Issues,
		Recommendations: a.Recommendations,
		Performance:     a.Performance,
		CreatedAt:       now,
	}
}
