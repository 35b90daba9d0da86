package models

// Validation labels shown on the dashboard.
const (
	LabelValidated    = "Validé"
	LabelInProgress   = "En cours"
	LabelNotValidated = "Non validé"
)

// EvaluationRecord is one normalized evaluation attached to an entity.
type EvaluationRecord struct {
	EvaluationName *string `json:"evaluation_name"`
	Validated      bool    `json:"validated"`
	ValidatedLabel string  `json:"validated_label"`
	Appreciation   *string `json:"appreciation"`
}

// EntityCompetencies groups an entity's evaluations for the competencies view.
type EntityCompetencies struct {
	EntityID    string             `json:"adf_id"`
	Title       *string            `json:"title"`
	Evaluations []EvaluationRecord `json:"evaluations"`
}

// CompetenciesResponse is the payload of the competencies endpoint.
type CompetenciesResponse struct {
	Email         string               `json:"email"`
	ParticipantID string               `json:"id_participant"`
	Entities      []EntityCompetencies `json:"adfs"`
	// Degraded lists entities whose evaluations could not be fetched.
	Degraded []string `json:"degraded,omitempty"`
}
