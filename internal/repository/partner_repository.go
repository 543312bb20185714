package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/affablelink/service-partner/internal/models"
)

// PartnerRepository persists partner accounts.
type PartnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository creates a new partner repository.
func NewPartnerRepository(db *gorm.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// Create inserts a new partner.
func (r *PartnerRepository) Create(ctx context.Context, partner *models.Partner) error {
	if partner.ID == uuid.Nil {
		partner.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(partner).Error
}

// GetByID fetches a partner by ID.
func (r *PartnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	var partner models.Partner
	if err := r.db.WithContext(ctx).First(&partner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

// GetByEmail fetches a partner by email.
func (r *PartnerRepository) GetByEmail(ctx context.Context, email string) (*models.Partner, error) {
	var partner models.Partner
	if err := r.db.WithContext(ctx).First(&partner, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

// Update persists changes to a partner.
func (r *PartnerRepository) Update(ctx context.Context, partner *models.Partner) error {
	return r.db.WithContext(ctx).Save(partner).Error
}

// ListActive returns all active partners.
func (r *PartnerRepository) ListActive(ctx context.Context) ([]models.Partner, error) {
	var partners []models.Partner
	err := r.db.WithContext(ctx).
		Where("status = ?", models.PartnerStatusActive).
		Order("created_at DESC").
		Find(&partners).Error
	return partners, err
}
