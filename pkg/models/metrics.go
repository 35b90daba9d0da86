package models

// MetricSnapshot is the hour accounting of one entity.
// RemainingHours is always max(0, TotalHours-SpentHours) with both inputs clamped to >= 0.
type MetricSnapshot struct {
	EntityID        string  `json:"id"`
	Title           string  `json:"intitule"`
	SpentHours      float64 `json:"spent_hours"`
	TotalHours      float64 `json:"total_hours"`
	RemainingHours  float64 `json:"remaining_hours"`
	ProgressPercent int     `json:"progress_percent"`
}

// ProgressSummary is the dashboard rollup across all of a user's entities.
type ProgressSummary struct {
	Email          string           `json:"email"`
	Entities       []MetricSnapshot `json:"adfs"`
	GlobalProgress int              `json:"global_progress"`
	Degraded       []string         `json:"degraded,omitempty"`
}
