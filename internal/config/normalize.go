package config

import (
	"fmt"
	"strings"
)

// normalize expands path fields and fills in zero-valued settings so the rest
// of the repository never has to re-check them.
func (c *Config) normalize() error {
	var err error
	if c.Paths.StorageRoot, err = expandPath(c.Paths.StorageRoot); err != nil {
		return fmt.Errorf("storage_root: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("log_dir: %w", err)
	}

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Bundle.AssetRepo = strings.TrimSuffix(strings.TrimSpace(c.Bundle.AssetRepo), "/")
	c.Gateway.WebhookURL = strings.TrimSpace(c.Gateway.WebhookURL)
	c.Normalize.FFmpegBinary = strings.TrimSpace(c.Normalize.FFmpegBinary)

	if c.Bundle.DownloadTimeout <= 0 {
		c.Bundle.DownloadTimeout = defaultDownloadTimeout
	}
	if c.Normalize.AudioSampleRate <= 0 {
		c.Normalize.AudioSampleRate = defaultAudioSampleRate
	}
	if c.Normalize.AudioChannels <= 0 {
		c.Normalize.AudioChannels = defaultAudioChannels
	}
	if c.Normalize.Workers <= 0 {
		c.Normalize.Workers = defaultWorkers
	}
	if c.Normalize.TranscodeTimeout <= 0 {
		c.Normalize.TranscodeTimeout = defaultTranscodeTimeout
	}
	if c.Gateway.RequestTimeout <= 0 {
		c.Gateway.RequestTimeout = defaultGatewayTimeout
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
