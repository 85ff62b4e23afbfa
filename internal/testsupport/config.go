package testsupport

import (
	"path/filepath"
	"testing"

	"packsmith/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StorageRoot = filepath.Join(base, "packs")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Gateway.WebhookURL = ""
	cfg.Normalize.Workers = 2

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithWebhook points the gateway at the given endpoint.
func WithWebhook(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Gateway.WebhookURL = url
		cfg.Gateway.RequestTimeout = 5
	}
}

// WithAssetRepo points bundle acquisition at the given repository URL.
func WithAssetRepo(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Bundle.AssetRepo = url
		cfg.Bundle.DownloadTimeout = 5
	}
}
