package llm

import (
	"context"
)

// OfflineClient is a Client that never reaches a model. It lets the service and
// the practice CLI run without credentials; every call fails with ErrOffline.
type OfflineClient struct {
	config *Config
}

// NewOfflineClient creates an offline client
func NewOfflineClient(config *Config) *OfflineClient {
	if config == nil {
		config = DefaultConfig()
	}
	return &OfflineClient{config: config}
}

// Complete always fails
func (c *OfflineClient) Complete(_ context.Context, req Request) (string, error) {
	return "", newGatewayFailure(ProviderOffline, c.config.GetModel(req.Tier), "offline", ErrOffline)
}

// GetModel returns the configured model name for a tier
func (c *OfflineClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op
func (c *OfflineClient) Close() error {
	return nil
}
