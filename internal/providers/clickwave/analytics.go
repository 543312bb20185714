package clickwave

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/affablelink/service-partner/internal/providers"
)

// PartnerStatsResponse represents the ClickWave partner stats API response.
type PartnerStatsResponse struct {
	BaseResponse
	Response struct {
		TotalClicks      int64   `json:"total_clicks"`
		TotalConversions int64   `json:"total_conversions"`
		TotalCommission  float64 `json:"total_commission"`
		ConversionRate   float64 `json:"conversion_rate"`
		AvgOrderValue    float64 `json:"avg_order_value"`
		ActiveLinks      int     `json:"active_links"`
		Currency         string  `json:"currency"`
	} `json:"response"`
}

// DailyStatsResponse represents per-day activity data. Only days with
// recorded events appear in the list.
type DailyStatsResponse struct {
	BaseResponse
	Response struct {
		Data []struct {
			Date        int64   `json:"date"` // unix seconds, midnight partner-local
			Clicks      int64   `json:"clicks"`
			Conversions int64   `json:"conversions"`
			Commission  float64 `json:"commission"`
		} `json:"data"`
	} `json:"response"`
}

// TopLinksResponse represents top-performing links.
type TopLinksResponse struct {
	BaseResponse
	Response struct {
		LinkList []struct {
			LinkID      string  `json:"link_id"`
			Slug        string  `json:"slug"`
			Clicks      int64   `json:"clicks"`
			Conversions int64   `json:"conversions"`
			Commission  float64 `json:"commission"`
			Conversion  float64 `json:"conversion_rate"`
		} `json:"link_list"`
	} `json:"response"`
}

// TrafficSourcesResponse represents referral source breakdown.
type TrafficSourcesResponse struct {
	BaseResponse
	Response struct {
		Sources []struct {
			Source      string  `json:"source"`
			Clicks      int64   `json:"clicks"`
			Conversions int64   `json:"conversions"`
			Percent     float64 `json:"percent"`
		} `json:"sources"`
	} `json:"response"`
}

// GetPartnerStats gets overall partner performance metrics.
func (p *Provider) GetPartnerStats(ctx context.Context, params providers.StatsQueryParams) (*providers.PartnerStats, error) {
	req := &Request{
		Method:   http.MethodGet,
		Path:     "/v1/stats/partner",
		NeedAuth: true,
		Query:    statsQuery(params),
	}

	var resp PartnerStatsResponse
	if err := p.client.Do(ctx, req, &resp); err != nil {
		return nil, err
	}

	r := resp.Response
	return &providers.PartnerStats{
		TotalClicks:       r.TotalClicks,
		TotalConversions:  r.TotalConversions,
		TotalCommission:   r.TotalCommission,
		ConversionRate:    r.ConversionRate,
		AverageOrderValue: r.AvgOrderValue,
		ActiveLinks:       r.ActiveLinks,
		Currency:          r.Currency,
	}, nil
}

// GetDailyStats gets per-day click/conversion data. The result is
// sparse; gap filling is the caller's concern.
func (p *Provider) GetDailyStats(ctx context.Context, params providers.StatsQueryParams) ([]providers.DailyStat, error) {
	req := &Request{
		Method:   http.MethodGet,
		Path:     "/v1/reports/daily",
		NeedAuth: true,
		Query:    statsQuery(params),
	}

	var resp DailyStatsResponse
	if err := p.client.Do(ctx, req, &resp); err != nil {
		return nil, err
	}

	stats := make([]providers.DailyStat, 0, len(resp.Response.Data))
	for _, d := range resp.Response.Data {
		stats = append(stats, providers.DailyStat{
			Date:        time.Unix(d.Date, 0),
			Clicks:      d.Clicks,
			Conversions: d.Conversions,
			Commission:  d.Commission,
		})
	}
	return stats, nil
}

// GetTopLinks gets the partner's best-performing links.
func (p *Provider) GetTopLinks(ctx context.Context, params providers.StatsQueryParams) ([]providers.TopLink, error) {
	req := &Request{
		Method:   http.MethodGet,
		Path:     "/v1/reports/top-links",
		NeedAuth: true,
		Query:    statsQuery(params),
	}

	var resp TopLinksResponse
	if err := p.client.Do(ctx, req, &resp); err != nil {
		return nil, err
	}

	links := make([]providers.TopLink, 0, len(resp.Response.LinkList))
	for _, l := range resp.Response.LinkList {
		links = append(links, providers.TopLink{
			ExternalLinkID: l.LinkID,
			Slug:           l.Slug,
			Clicks:         l.Clicks,
			Conversions:    l.Conversions,
			Commission:     l.Commission,
			ConversionRate: l.Conversion,
		})
	}
	return links, nil
}

// GetTrafficSources gets the referral source breakdown.
func (p *Provider) GetTrafficSources(ctx context.Context, params providers.StatsQueryParams) ([]providers.TrafficSource, error) {
	req := &Request{
		Method:   http.MethodGet,
		Path:     "/v1/reports/traffic",
		NeedAuth: true,
		Query:    statsQuery(params),
	}

	var resp TrafficSourcesResponse
	if err := p.client.Do(ctx, req, &resp); err != nil {
		return nil, err
	}

	sources := make([]providers.TrafficSource, 0, len(resp.Response.Sources))
	for _, s := range resp.Response.Sources {
		sources = append(sources, providers.TrafficSource{
			Source:      s.Source,
			Clicks:      s.Clicks,
			Conversions: s.Conversions,
			Percent:     s.Percent,
		})
	}
	return sources, nil
}

// statsQuery builds the common query parameters for stats endpoints.
func statsQuery(params providers.StatsQueryParams) map[string]string {
	q := map[string]string{
		"partner_ref": params.PartnerRef,
		"start_time":  strconv.FormatInt(params.StartDate.Unix(), 10),
		"end_time":    strconv.FormatInt(params.EndDate.Unix(), 10),
	}
	if params.Limit > 0 {
		q["limit"] = strconv.Itoa(params.Limit)
	}
	return q
}
