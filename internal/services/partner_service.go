package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/models"
	"github.com/affablelink/service-partner/internal/repository"
	"github.com/affablelink/service-partner/internal/resource"
)

// PartnerService manages partner accounts.
type PartnerService struct {
	partners *repository.PartnerRepository
	logger   *zap.Logger

	updateMut *resource.Mutation[UpdatePartnerInput, models.Partner]
}

// UpdatePartnerInput carries the mutable partner profile fields.
type UpdatePartnerInput struct {
	PartnerID     uuid.UUID `json:"-"`
	Name          string    `json:"name"`
	Company       string    `json:"company"`
	PayoutAddress string    `json:"payout_address"`
}

// NewPartnerService creates a new partner service.
func NewPartnerService(partners *repository.PartnerRepository, logger *zap.Logger) *PartnerService {
	s := &PartnerService{
		partners: partners,
		logger:   logger,
	}
	s.updateMut = resource.NewMutation(s.update)
	return s
}

// Get fetches a partner by ID.
func (s *PartnerService) Get(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	return s.partners.GetByID(ctx, id)
}

// Update applies profile changes through the mutation runner so failures
// are both recorded and returned.
func (s *PartnerService) Update(ctx context.Context, input UpdatePartnerInput) (models.Partner, error) {
	return s.updateMut.Mutate(ctx, input)
}

func (s *PartnerService) update(ctx context.Context, input UpdatePartnerInput) (models.Partner, error) {
	partner, err := s.partners.GetByID(ctx, input.PartnerID)
	if err != nil {
		return models.Partner{}, err
	}

	if input.Name != "" {
		partner.Name = input.Name
	}
	partner.Company = input.Company
	partner.PayoutAddress = input.PayoutAddress

	if err := s.partners.Update(ctx, partner); err != nil {
		return models.Partner{}, err
	}

	s.logger.Info("partner updated", zap.String("partner_id", partner.ID.String()))
	return *partner, nil
}
