package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"

	"packsmith/internal/api"
	"packsmith/internal/bundle"
	"packsmith/internal/config"
	"packsmith/internal/logging"
	"packsmith/internal/messaging"
	"packsmith/internal/normalize"
	"packsmith/internal/services/ffmpeg"
	"packsmith/internal/workflow"
)

const lockFileName = "packsmithd.lock"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	// One daemon per storage root; a second instance would race the
	// assignment stores and baseline trees.
	lock := flock.New(filepath.Join(cfg.Paths.StorageRoot, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		logger.Error("acquire storage lock", slog.String("error", err.Error()))
		return
	}
	if !locked {
		logger.Error("another packsmithd already owns this storage root",
			slog.String("lock", lock.Path()),
		)
		return
	}
	defer lock.Unlock() //nolint:errcheck

	transcoder, err := ffmpeg.New(cfg.FFmpegBinary(), cfg.Normalize.TranscodeTimeout)
	if err != nil {
		logger.Error("init ffmpeg client", slog.String("error", err.Error()))
		return
	}
	normalizer, err := normalize.New(transcoder, cfg.Normalize.AudioChannels, cfg.Normalize.AudioSampleRate)
	if err != nil {
		logger.Error("init normalizer", slog.String("error", err.Error()))
		return
	}

	gateway := messaging.NewGateway(cfg)
	fetcher := bundle.NewFetcher(cfg, logging.WithComponent(logger, "bundle"))

	manager := workflow.NewManager(cfg, logger, gateway, normalizer, fetcher)
	defer manager.Close() //nolint:errcheck

	if err := manager.Resume(ctx); err != nil {
		logger.Error("resume packs", slog.String("error", err.Error()))
		return
	}

	server := api.NewServer(cfg, manager, logger)
	if server != nil {
		if err := server.Start(ctx); err != nil {
			logger.Error("start api server", slog.String("error", err.Error()))
			return
		}
		defer server.Stop()
	}

	<-ctx.Done()
	logger.Info("packsmithd shutting down")
}
