// Package providers defines the provider-agnostic contract for external
// click-tracking networks.
package providers

import (
	"context"
	"time"
)

// PartnerStats represents overall partner performance at the tracker.
type PartnerStats struct {
	TotalClicks       int64   `json:"total_clicks"`
	TotalConversions  int64   `json:"total_conversions"`
	TotalCommission   float64 `json:"total_commission"`
	ConversionRate    float64 `json:"conversion_rate"`
	AverageOrderValue float64 `json:"average_order_value"`
	ActiveLinks       int     `json:"active_links"`
	Currency          string  `json:"currency"`
}

// DailyStat represents one day of tracker activity. Sparse: the tracker
// only reports days with at least one event.
type DailyStat struct {
	Date        time.Time `json:"date"`
	Clicks      int64     `json:"clicks"`
	Conversions int64     `json:"conversions"`
	Commission  float64   `json:"commission"`
}

// TopLink represents a top-performing tracked link.
type TopLink struct {
	ExternalLinkID string  `json:"external_link_id"`
	Slug           string  `json:"slug"`
	Clicks         int64   `json:"clicks"`
	Conversions    int64   `json:"conversions"`
	Commission     float64 `json:"commission"`
	ConversionRate float64 `json:"conversion_rate"`
}

// TrafficSource represents referral traffic analytics.
type TrafficSource struct {
	Source      string  `json:"source"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Percent     float64 `json:"percent"`
}

// StatsQueryParams represents parameters for querying tracker stats.
type StatsQueryParams struct {
	PartnerRef string    `json:"partner_ref"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Limit      int       `json:"limit,omitempty"`
}

// TrackerProvider is the interface a tracking network integration
// implements.
type TrackerProvider interface {
	GetPartnerStats(ctx context.Context, params StatsQueryParams) (*PartnerStats, error)
	GetDailyStats(ctx context.Context, params StatsQueryParams) ([]DailyStat, error)
	GetTopLinks(ctx context.Context, params StatsQueryParams) ([]TopLink, error)
	GetTrafficSources(ctx context.Context, params StatsQueryParams) ([]TrafficSource, error)
}
