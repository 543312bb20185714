package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/affablelink/service-partner/internal/models"
)

// LinkRepository persists tracked links.
type LinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates a new link repository.
func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Create inserts a new tracked link.
func (r *LinkRepository) Create(ctx context.Context, link *models.TrackedLink) error {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(link).Error
}

// GetByID fetches a link by ID.
func (r *LinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TrackedLink, error) {
	var link models.TrackedLink
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// GetBySlug fetches a link by its short slug.
func (r *LinkRepository) GetBySlug(ctx context.Context, slug string) (*models.TrackedLink, error) {
	var link models.TrackedLink
	if err := r.db.WithContext(ctx).First(&link, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ListByPartner returns all links owned by a partner, newest first.
func (r *LinkRepository) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.TrackedLink, error) {
	var links []models.TrackedLink
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at DESC").
		Find(&links).Error
	return links, err
}

// IncrementClicks atomically bumps the click counter for a link.
func (r *LinkRepository) IncrementClicks(ctx context.Context, id uuid.UUID, delta int64) error {
	return r.db.WithContext(ctx).
		Model(&models.TrackedLink{}).
		Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", delta)).Error
}

// Delete removes a link.
func (r *LinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.TrackedLink{}, "id = ?", id).Error
}
