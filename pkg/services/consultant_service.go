package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/apperrors"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/jsonutil"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/models"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/normalize"
)

var trainerWrappers = []string{"lafs"}

// ConsultantService lists the trainers assigned to entities.
type ConsultantService interface {
	// Consultants returns the trainers of entityIDs. When entityIDs is empty the entities of
	// email's identity bundle are used; with neither, apperrors.ErrInvalidRequest is returned.
	// Any failed trainer lookup fails the whole call.
	Consultants(ctx context.Context, entityIDs []string, email string) (*models.ConsultantsResponse, error)
}

type consultantService struct {
	identity IdentityService
	provider Provider
	logger   *zap.Logger
}

// NewConsultantService creates a new ConsultantService.
func NewConsultantService(identity IdentityService, provider Provider, logger *zap.Logger) ConsultantService {
	return &consultantService{
		identity: identity,
		provider: provider,
		logger:   logger.Named("consultants"),
	}
}

func (s *consultantService) Consultants(ctx context.Context, entityIDs []string, email string) (*models.ConsultantsResponse, error) {
	entityIDs = uniqueNonEmpty(entityIDs)
	if len(entityIDs) == 0 {
		if strings.TrimSpace(email) == "" {
			return nil, fmt.Errorf("%w: missing 'adfId' or 'adfIds' parameter", apperrors.ErrInvalidRequest)
		}
		bundle, _, err := s.identity.Resolve(ctx, email)
		if err != nil {
			return nil, err
		}
		entityIDs = bundle.EntityIDs
	}

	perEntity := make([][]models.Consultant, len(entityIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, entityID := range entityIDs {
		g.Go(func() error {
			body, err := s.provider.TrainerAssignments(gctx, entityID)
			if err != nil {
				return fmt.Errorf("trainer lookup for %s: %w", entityID, err)
			}
			perEntity[i] = ExtractConsultants(body)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &models.ConsultantsResponse{
		EntityIDs:   entityIDs,
		PerEntity:   make(map[string][]models.Consultant, len(entityIDs)),
		Consultants: []models.Consultant{},
	}
	seen := make(map[string]bool)
	for i, entityID := range entityIDs {
		resp.PerEntity[entityID] = perEntity[i]
		for _, c := range perEntity[i] {
			if !seen[c.ID] {
				seen[c.ID] = true
				resp.Consultants = append(resp.Consultants, c)
			}
		}
	}

	s.logger.Debug("Listed consultants",
		zap.Int("entities", len(entityIDs)),
		zap.Int("consultants", len(resp.Consultants)))

	return resp, nil
}

// ExtractConsultants reads trainer assignment records into unique consultants, in first-seen order.
// Records sharing a trainer id are merged field by field; the first non-empty value wins.
func ExtractConsultants(body any) []models.Consultant {
	var order []string
	byID := make(map[string]*models.Consultant)

	items := normalize.ToArray(body, normalize.Options{IDProperty: "id_formateur", WrapperProperties: trainerWrappers})
	if obj, ok := jsonutil.Object(body); ok && len(items) == 0 {
		// a single assignment may only name its trainer inside "formateur"
		items = []any{obj}
	}

	for _, rec := range normalize.Objects(items) {
		c, ok := consultantFrom(rec)
		if !ok {
			continue
		}
		if existing, found := byID[c.ID]; found {
			existing.Merge(c)
			continue
		}
		order = append(order, c.ID)
		byID[c.ID] = &c
	}

	out := make([]models.Consultant, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

func consultantFrom(rec map[string]any) (models.Consultant, bool) {
	trainer, _ := jsonutil.Object(rec["formateur"])

	id := jsonutil.ID(rec["id_formateur"])
	if id == "" {
		id = jsonutil.ID(trainer["id_formateur"])
	}
	if id == "" {
		return models.Consultant{}, false
	}

	c := models.Consultant{
		ID:           id,
		LastName:     stringField(trainer["nom"]),
		FirstName:    stringField(trainer["prenom"]),
		EmailPro:     stringField(trainer["email_pro"]),
		TelephonePro: stringField(trainer["telephone_pro"]),
	}
	if c.LastName == nil {
		c.LastName = stringField(rec["nom_formateur"])
	}
	if c.FirstName == nil {
		c.FirstName = stringField(rec["prenom_formateur"])
	}
	if photo := stringField(trainer["photo_url"]); photo != nil && strings.TrimSpace(*photo) != "" {
		c.PhotoURL = photo
	}
	return c, true
}

// stringField returns v when it is a JSON string, nil otherwise.
func stringField(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func uniqueNonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
