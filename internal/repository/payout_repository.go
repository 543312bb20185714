package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/affablelink/service-partner/internal/models"
)

// PayoutRepository persists payout requests.
type PayoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository creates a new payout repository.
func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

// Create inserts a new payout.
func (r *PayoutRepository) Create(ctx context.Context, payout *models.Payout) error {
	if payout.ID == uuid.Nil {
		payout.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(payout).Error
}

// GetByID fetches a payout by ID.
func (r *PayoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payout, error) {
	var payout models.Payout
	if err := r.db.WithContext(ctx).First(&payout, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payout, nil
}

// Update persists changes to a payout.
func (r *PayoutRepository) Update(ctx context.Context, payout *models.Payout) error {
	return r.db.WithContext(ctx).Save(payout).Error
}

// ListByPartner returns a partner's payouts, newest first.
func (r *PayoutRepository) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at DESC").
		Find(&payouts).Error
	return payouts, err
}
