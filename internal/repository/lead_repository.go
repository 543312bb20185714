package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/affablelink/service-partner/internal/models"
)

// LeadRepository persists interest-capture submissions.
type LeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository.
func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create inserts a new lead.
func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(lead).Error
}

// List returns captured leads, newest first, capped at limit.
func (r *LeadRepository) List(ctx context.Context, limit int) ([]models.Lead, error) {
	var leads []models.Lead
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&leads).Error
	return leads, err
}
