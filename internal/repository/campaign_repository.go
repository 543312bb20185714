package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/affablelink/service-partner/internal/models"
)

// CampaignRepository persists vendor campaigns.
type CampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new campaign repository.
func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create inserts a new campaign.
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	if campaign.ID == uuid.Nil {
		campaign.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(campaign).Error
}

// GetByID fetches a campaign by ID.
func (r *CampaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// Update persists changes to a campaign.
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Save(campaign).Error
}

// ListByVendor returns all campaigns for a vendor, newest first.
func (r *CampaignRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

// ListActive returns campaigns partners can currently promote.
func (r *CampaignRepository) ListActive(ctx context.Context) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.WithContext(ctx).
		Where("status = ?", models.CampaignStatusActive).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}
