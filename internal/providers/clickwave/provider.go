package clickwave

import (
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/providers"
)

// Provider implements the tracker provider contract for ClickWave.
type Provider struct {
	client *Client
	logger *zap.Logger
}

var _ providers.TrackerProvider = (*Provider)(nil)

// NewProvider creates a ClickWave provider on top of an authenticated
// client.
func NewProvider(client *Client, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		client: client,
		logger: logger,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "clickwave"
}

// Client exposes the underlying API client, for token wiring at startup.
func (p *Provider) Client() *Client {
	return p.client
}
