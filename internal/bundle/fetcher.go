package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"packsmith/internal/config"
	"packsmith/internal/fileutil"
	"packsmith/internal/pack"
)

const userAgent = "Packsmith/0.1.0"

// archiveFileName is the downloaded zipball kept in the pack root.
const archiveFileName = "bundle.zip"

// Fetcher downloads a version zipball of the asset repository and extracts it
// into a pack's baseline tree.
type Fetcher struct {
	repo    string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger
}

// NewFetcher builds a fetcher from configuration.
func NewFetcher(cfg *config.Config, logger *slog.Logger) *Fetcher {
	timeout := time.Duration(cfg.Bundle.DownloadTimeout) * time.Second
	return &Fetcher{
		repo:    cfg.Bundle.AssetRepo,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// SanitizeVersion strips everything except letters, digits, and dots so the
// version can be embedded in a URL path.
func SanitizeVersion(version string) string {
	var builder strings.Builder
	for _, r := range version {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// Fetch downloads the zipball for version and populates the pack's
// original_assets tree. A non-success status or timeout is a definitive
// failure; the caller removes the pack root so no partial pack remains.
func (f *Fetcher) Fetch(ctx context.Context, p *pack.Pack, version string) error {
	if f.repo == "" {
		return errors.New("bundle.asset_repo is not configured")
	}
	cleaned := SanitizeVersion(version)
	if cleaned == "" {
		return fmt.Errorf("version %q is empty after sanitizing", version)
	}
	url := f.repo + "/zipball/refs/heads/" + cleaned

	fetchCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build bundle request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download bundle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("bundle download returned status %d for %s", resp.StatusCode, url)
	}

	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create pack root: %w", err)
	}
	archivePath := filepath.Join(p.Root, archiveFileName)
	if err := streamToFile(resp.Body, archivePath); err != nil {
		return err
	}

	if f.logger != nil {
		f.logger.Info("bundle downloaded",
			slog.String("pack", p.ID),
			slog.String("version", cleaned),
		)
	}

	if err := fileutil.ExtractZip(archivePath, p.OriginalRoot()); err != nil {
		return fmt.Errorf("extract bundle: %w", err)
	}
	return nil
}

func streamToFile(body io.Reader, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bundle file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		return fmt.Errorf("save bundle: %w", err)
	}
	return out.Close()
}
