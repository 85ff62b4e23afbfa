package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateBundle(); err != nil {
		return err
	}
	if err := c.validateGateway(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StorageRoot) == "" {
		return errors.New("paths.storage_root must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateBundle() error {
	if c.Bundle.AssetRepo == "" {
		return nil
	}
	parsed, err := url.Parse(c.Bundle.AssetRepo)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("bundle.asset_repo %q is not a valid URL", c.Bundle.AssetRepo)
	}
	return nil
}

func (c *Config) validateGateway() error {
	if c.Gateway.WebhookURL == "" {
		return nil
	}
	parsed, err := url.Parse(c.Gateway.WebhookURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("gateway.webhook_url %q is not a valid URL", c.Gateway.WebhookURL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
