package models

// LapFilesResponse is the payload of the shared-files endpoint.
// PerLap holds each enrolment's raw provider body; Files flattens the successful ones.
type LapFilesResponse struct {
	LapIDs []string       `json:"lap_ids"`
	PerLap map[string]any `json:"per_lap"`
	Files  []any          `json:"files"`
}

// TasksResponse wraps the provider's task list for a participant.
type TasksResponse struct {
	ParticipantID     string `json:"id_participant"`
	PendingSignatures int    `json:"pending_esignatures"`
	Tasks             []any  `json:"taches"`
	Raw               any    `json:"raw"`
}

// CacheClearResult reports which cache entries were deleted.
type CacheClearResult struct {
	Success bool            `json:"success"`
	Email   string          `json:"email"`
	Cleared map[string]bool `json:"cleared"`
	Message string          `json:"message"`
}
