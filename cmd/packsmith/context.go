package main

import (
	"context"
	"fmt"

	"packsmith/internal/bundle"
	"packsmith/internal/config"
	"packsmith/internal/logging"
	"packsmith/internal/messaging"
	"packsmith/internal/normalize"
	"packsmith/internal/services/ffmpeg"
	"packsmith/internal/workflow"
)

// commandContext shares lazily loaded configuration across subcommands.
type commandContext struct {
	configFlag *string

	cfg     *config.Config
	cfgPath string
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	flagValue := ""
	if c.configFlag != nil {
		flagValue = *c.configFlag
	}
	cfg, path, _, err := config.Load(flagValue)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.cfgPath = path
	return cfg, nil
}

// newManager builds a workflow manager over the configured storage root and
// resumes existing packs. Callers own Close.
func (c *commandContext) newManager(ctx context.Context) (*workflow.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	transcoder, err := ffmpeg.New(cfg.FFmpegBinary(), cfg.Normalize.TranscodeTimeout)
	if err != nil {
		return nil, fmt.Errorf("init ffmpeg client: %w", err)
	}
	normalizer, err := normalize.New(transcoder, cfg.Normalize.AudioChannels, cfg.Normalize.AudioSampleRate)
	if err != nil {
		return nil, fmt.Errorf("init normalizer: %w", err)
	}

	logger := logging.NewNop()
	manager := workflow.NewManager(cfg, logger, messaging.NewGateway(cfg), normalizer, bundle.NewFetcher(cfg, logger))
	if err := manager.Resume(ctx); err != nil {
		_ = manager.Close()
		return nil, err
	}
	return manager, nil
}
