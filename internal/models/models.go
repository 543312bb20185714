// Package models defines the persisted entities of the partner service.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Partner status values.
const (
	PartnerStatusActive    = "active"
	PartnerStatusSuspended = "suspended"
)

// Campaign status values.
const (
	CampaignStatusDraft    = "draft"
	CampaignStatusActive   = "active"
	CampaignStatusPaused   = "paused"
	CampaignStatusArchived = "archived"
)

// Conversion status values.
const (
	ConversionStatusPending  = "pending"
	ConversionStatusApproved = "approved"
	ConversionStatusReversed = "reversed"
)

// Payout status values.
const (
	PayoutStatusRequested = "requested"
	PayoutStatusPaid      = "paid"
	PayoutStatusFailed    = "failed"
)

// Partner is an affiliate account holder.
type Partner struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Name          string    `gorm:"not null" json:"name"`
	Company       string    `json:"company,omitempty"`
	PayoutAddress string    `json:"payout_address,omitempty"`
	// External ID at the ClickWave tracking network
	TrackerID string    `gorm:"index" json:"tracker_id,omitempty"`
	Status    string    `gorm:"default:active" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Vendor owns campaigns and pays commissions.
type Vendor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"not null" json:"name"`
	Website   string    `json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Campaign is a vendor program partners can promote.
type Campaign struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID       uuid.UUID `gorm:"type:uuid;index;not null" json:"vendor_id"`
	Name           string    `gorm:"not null" json:"name"`
	Description    string    `json:"description,omitempty"`
	TargetURL      string    `gorm:"not null" json:"target_url"`
	CommissionRate float64   `gorm:"not null" json:"commission_rate"`
	Status         string    `gorm:"default:draft;index" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TrackedLink is one partner's short link into a campaign.
type TrackedLink struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID uuid.UUID `gorm:"type:uuid;index;not null" json:"campaign_id"`
	PartnerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"partner_id"`
	Slug       string    `gorm:"uniqueIndex;not null" json:"slug"`
	TargetURL  string    `gorm:"not null" json:"target_url"`
	Clicks     int64     `gorm:"default:0" json:"clicks"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Conversion records an attributed sale or signup.
type Conversion struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LinkID     uuid.UUID      `gorm:"type:uuid;index;not null" json:"link_id"`
	CampaignID uuid.UUID      `gorm:"type:uuid;index;not null" json:"campaign_id"`
	PartnerID  uuid.UUID      `gorm:"type:uuid;index;not null" json:"partner_id"`
	Value      float64        `gorm:"not null" json:"value"`
	Commission float64        `gorm:"not null" json:"commission"`
	Currency   string         `gorm:"default:USD" json:"currency"`
	Status     string         `gorm:"default:pending;index" json:"status"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
	OccurredAt time.Time      `gorm:"index;not null" json:"occurred_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Payout is a commission disbursement to a partner for a period.
type Payout struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PartnerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"partner_id"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Currency    string    `gorm:"default:USD" json:"currency"`
	PeriodStart time.Time `gorm:"not null" json:"period_start"`
	PeriodEnd   time.Time `gorm:"not null" json:"period_end"`
	Status      string    `gorm:"default:requested;index" json:"status"`
	// Reference assigned by the billing service once executed
	ExternalRef string    `json:"external_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Lead is an interest-capture form submission from the marketing site.
type Lead struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string         `gorm:"index;not null" json:"email"`
	Name      string         `json:"name,omitempty"`
	Company   string         `json:"company,omitempty"`
	Source    string         `gorm:"index" json:"source,omitempty"`
	Answers   datatypes.JSON `json:"answers,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
