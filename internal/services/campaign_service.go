package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/models"
	"github.com/affablelink/service-partner/internal/repository"
	"github.com/affablelink/service-partner/internal/resource"
)

// CampaignService manages vendor campaigns.
type CampaignService struct {
	campaigns *repository.CampaignRepository
	logger    *zap.Logger

	createMut *resource.Mutation[CreateCampaignInput, models.Campaign]
	updateMut *resource.Mutation[UpdateCampaignInput, models.Campaign]
}

// CreateCampaignInput carries the fields for a new campaign.
type CreateCampaignInput struct {
	VendorID       uuid.UUID `json:"-"`
	Name           string    `json:"name" binding:"required"`
	Description    string    `json:"description"`
	TargetURL      string    `json:"target_url" binding:"required"`
	CommissionRate float64   `json:"commission_rate" binding:"required"`
}

// UpdateCampaignInput carries mutable campaign fields.
type UpdateCampaignInput struct {
	CampaignID     uuid.UUID `json:"-"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	TargetURL      string    `json:"target_url"`
	CommissionRate float64   `json:"commission_rate"`
	Status         string    `json:"status"`
}

// NewCampaignService creates a new campaign service.
func NewCampaignService(campaigns *repository.CampaignRepository, logger *zap.Logger) *CampaignService {
	s := &CampaignService{
		campaigns: campaigns,
		logger:    logger,
	}
	s.createMut = resource.NewMutation(s.create)
	s.updateMut = resource.NewMutation(s.update)
	return s
}

// Create adds a new campaign in draft status.
func (s *CampaignService) Create(ctx context.Context, input CreateCampaignInput) (models.Campaign, error) {
	return s.createMut.Mutate(ctx, input)
}

func (s *CampaignService) create(ctx context.Context, input CreateCampaignInput) (models.Campaign, error) {
	if input.CommissionRate <= 0 || input.CommissionRate > 1 {
		return models.Campaign{}, fmt.Errorf("commission rate must be within (0, 1]")
	}

	campaign := models.Campaign{
		ID:             uuid.New(),
		VendorID:       input.VendorID,
		Name:           input.Name,
		Description:    input.Description,
		TargetURL:      input.TargetURL,
		CommissionRate: input.CommissionRate,
		Status:         models.CampaignStatusDraft,
	}

	if err := s.campaigns.Create(ctx, &campaign); err != nil {
		return models.Campaign{}, err
	}

	s.logger.Info("campaign created",
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("vendor_id", input.VendorID.String()),
	)
	return campaign, nil
}

// Update applies changes to an existing campaign.
func (s *CampaignService) Update(ctx context.Context, input UpdateCampaignInput) (models.Campaign, error) {
	return s.updateMut.Mutate(ctx, input)
}

func (s *CampaignService) update(ctx context.Context, input UpdateCampaignInput) (models.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, input.CampaignID)
	if err != nil {
		return models.Campaign{}, err
	}

	if input.Name != "" {
		campaign.Name = input.Name
	}
	if input.Description != "" {
		campaign.Description = input.Description
	}
	if input.TargetURL != "" {
		campaign.TargetURL = input.TargetURL
	}
	if input.CommissionRate > 0 {
		campaign.CommissionRate = input.CommissionRate
	}
	if input.Status != "" {
		switch input.Status {
		case models.CampaignStatusDraft, models.CampaignStatusActive,
			models.CampaignStatusPaused, models.CampaignStatusArchived:
			campaign.Status = input.Status
		default:
			return models.Campaign{}, fmt.Errorf("unknown campaign status: %s", input.Status)
		}
	}

	if err := s.campaigns.Update(ctx, campaign); err != nil {
		return models.Campaign{}, err
	}

	return *campaign, nil
}

// Get fetches a campaign by ID.
func (s *CampaignService) Get(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return s.campaigns.GetByID(ctx, id)
}

// ListByVendor returns a vendor's campaigns.
func (s *CampaignService) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Campaign, error) {
	return s.campaigns.ListByVendor(ctx, vendorID)
}

// ListActive returns campaigns open for promotion.
func (s *CampaignService) ListActive(ctx context.Context) ([]models.Campaign, error) {
	return s.campaigns.ListActive(ctx)
}
