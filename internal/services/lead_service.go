package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/models"
	"github.com/affablelink/service-partner/internal/repository"
	"github.com/affablelink/service-partner/internal/resource"
)

// LeadService captures interest form submissions from the marketing
// site.
type LeadService struct {
	leads  *repository.LeadRepository
	logger *zap.Logger

	captureMut *resource.Mutation[CaptureLeadInput, models.Lead]
}

// CaptureLeadInput is a marketing-site form submission.
type CaptureLeadInput struct {
	Email   string         `json:"email" binding:"required,email"`
	Name    string         `json:"name"`
	Company string         `json:"company"`
	Source  string         `json:"source"`
	Answers map[string]any `json:"answers"`
}

// NewLeadService creates a new lead service.
func NewLeadService(leads *repository.LeadRepository, logger *zap.Logger) *LeadService {
	s := &LeadService{leads: leads, logger: logger}
	s.captureMut = resource.NewMutation(s.capture)
	return s
}

// Capture persists a lead submission.
func (s *LeadService) Capture(ctx context.Context, input CaptureLeadInput) (models.Lead, error) {
	return s.captureMut.Mutate(ctx, input)
}

// CaptureState returns the current snapshot of the capture mutation.
func (s *LeadService) CaptureState() resource.State[models.Lead] {
	return s.captureMut.State()
}

func (s *LeadService) capture(ctx context.Context, input CaptureLeadInput) (models.Lead, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return models.Lead{}, errors.New("email is required")
	}

	lead := models.Lead{
		ID:      uuid.New(),
		Email:   email,
		Name:    strings.TrimSpace(input.Name),
		Company: strings.TrimSpace(input.Company),
		Source:  input.Source,
	}
	if input.Answers != nil {
		answers, err := marshalJSON(input.Answers)
		if err != nil {
			return models.Lead{}, err
		}
		lead.Answers = answers
	}

	if err := s.leads.Create(ctx, &lead); err != nil {
		return models.Lead{}, err
	}

	s.logger.Info("lead captured",
		zap.String("lead_id", lead.ID.String()),
		zap.String("source", lead.Source),
	)
	return lead, nil
}

// List returns the most recent leads.
func (s *LeadService) List(ctx context.Context, limit int) ([]models.Lead, error) {
	return s.leads.List(ctx, limit)
}
