package upstream

import (
	"context"
	"net/url"
)

// Provider endpoint names, without the .php suffix.
const (
	EndpointParticipants       = "participants"
	EndpointLaps               = "laps"
	EndpointEvaluations        = "evaluations"
	EndpointActionsDeFormation = "actions_de_formation"
	EndpointCreneaux           = "creneaux"
	EndpointLafs               = "lafs"
	EndpointAdministrateurs    = "administrateurs"
	EndpointFichiers           = "fichiers"
	EndpointTaches             = "taches"
)

// Participants looks participants up by email, participations included.
func (c *Client) Participants(ctx context.Context, email string) (any, error) {
	return c.Fetch(ctx, EndpointParticipants, url.Values{
		"email":   {email},
		"include": {"participations"},
	})
}

// Laps lists the enrolment records of a participant.
func (c *Client) Laps(ctx context.Context, participantID string) (any, error) {
	return c.Fetch(ctx, EndpointLaps, url.Values{"id_participant": {participantID}})
}

// Evaluations lists evaluations of a participant. An empty entityID asks for all entities at once.
func (c *Client) Evaluations(ctx context.Context, entityID, participantID string) (any, error) {
	params := url.Values{"id_participant": {participantID}}
	if entityID != "" {
		params.Set("id_action_de_formation", entityID)
	}
	return c.Fetch(ctx, EndpointEvaluations, params)
}

// ActionDeFormation fetches one entity. include is optional (e.g. "creneaux").
func (c *Client) ActionDeFormation(ctx context.Context, entityID, include string) (any, error) {
	params := url.Values{"id": {entityID}}
	if include != "" {
		params.Set("include", include)
	}
	return c.Fetch(ctx, EndpointActionsDeFormation, params)
}

// EntitySessions lists the sessions of an entity with their attendance lines.
func (c *Client) EntitySessions(ctx context.Context, entityID string) (any, error) {
	return c.Fetch(ctx, EndpointCreneaux, url.Values{
		"id_action_de_formation": {entityID},
		"include":                {"lcps"},
	})
}

// ParticipantSessions lists every session of a participant with formation and attendance.
func (c *Client) ParticipantSessions(ctx context.Context, participantID string) (any, error) {
	return c.Fetch(ctx, EndpointCreneaux, url.Values{
		"id_participant": {participantID},
		"include":        {"formation,lcps"},
	})
}

// TrainerAssignments lists the trainer assignments of an entity.
func (c *Client) TrainerAssignments(ctx context.Context, entityID string) (any, error) {
	return c.Fetch(ctx, EndpointLafs, url.Values{"id_action_de_formation": {entityID}})
}

// Administrator fetches a staff member.
func (c *Client) Administrator(ctx context.Context, id string) (any, error) {
	return c.Fetch(ctx, EndpointAdministrateurs, url.Values{"id": {id}})
}

// SharedFiles lists the files shared on an enrolment record.
func (c *Client) SharedFiles(ctx context.Context, lapID string) (any, error) {
	return c.Fetch(ctx, EndpointFichiers, url.Values{
		"cible":           {"lap"},
		"id_cible":        {lapID},
		"collection_name": {"partage_lap"},
	})
}

// Tasks lists the pending tasks of a participant.
func (c *Client) Tasks(ctx context.Context, participantID string) (any, error) {
	return c.Fetch(ctx, EndpointTaches, url.Values{"id_participant": {participantID}})
}
