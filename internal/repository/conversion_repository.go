package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/affablelink/service-partner/internal/models"
)

// ConversionRepository persists attributed conversions.
type ConversionRepository struct {
	db *gorm.DB
}

// NewConversionRepository creates a new conversion repository.
func NewConversionRepository(db *gorm.DB) *ConversionRepository {
	return &ConversionRepository{db: db}
}

// Create inserts a new conversion.
func (r *ConversionRepository) Create(ctx context.Context, conversion *models.Conversion) error {
	if conversion.ID == uuid.Nil {
		conversion.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(conversion).Error
}

// GetByID fetches a conversion by ID.
func (r *ConversionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversion, error) {
	var conversion models.Conversion
	if err := r.db.WithContext(ctx).First(&conversion, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conversion, nil
}

// UpdateStatus transitions a conversion between pending/approved/reversed.
func (r *ConversionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Conversion{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// ListByPartner returns a partner's conversions within a window, newest
// first, capped at limit.
func (r *ConversionRepository) ListByPartner(ctx context.Context, partnerID uuid.UUID, start, end time.Time, limit int) ([]models.Conversion, error) {
	var conversions []models.Conversion
	q := r.db.WithContext(ctx).
		Where("partner_id = ? AND occurred_at >= ? AND occurred_at <= ?", partnerID, start, end).
		Order("occurred_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&conversions).Error
	return conversions, err
}

// DailyTotal is a sparse per-day conversion aggregate. Days with no
// conversions produce no row.
type DailyTotal struct {
	Day        time.Time `json:"day"`
	Count      int64     `json:"count"`
	Commission float64   `json:"commission"`
}

// DailyTotals aggregates a partner's conversions per calendar day within
// the inclusive window.
func (r *ConversionRepository) DailyTotals(ctx context.Context, partnerID uuid.UUID, start, end time.Time) ([]DailyTotal, error) {
	var totals []DailyTotal
	err := r.db.WithContext(ctx).
		Model(&models.Conversion{}).
		Select("date_trunc('day', occurred_at) AS day, count(*) AS count, coalesce(sum(commission), 0) AS commission").
		Where("partner_id = ? AND occurred_at >= ? AND occurred_at <= ?", partnerID, start, end).
		Where("status <> ?", models.ConversionStatusReversed).
		Group("date_trunc('day', occurred_at)").
		Order("day ASC").
		Scan(&totals).Error
	return totals, err
}

// ApprovedCommission sums the approved, unpaid commission for a partner
// within a period.
func (r *ConversionRepository) ApprovedCommission(ctx context.Context, partnerID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Conversion{}).
		Select("coalesce(sum(commission), 0)").
		Where("partner_id = ? AND status = ? AND occurred_at >= ? AND occurred_at <= ?",
			partnerID, models.ConversionStatusApproved, start, end).
		Scan(&total).Error
	return total, err
}
