package workflow

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path"
	"strings"

	"packsmith/internal/fileutil"
	"packsmith/internal/normalize"
)

// Submit processes a volunteer's replacement for the asset identified by
// token. Ownership is checked before anything touches disk, so a foreign or
// stale submission mutates nothing. An accepted submission lands as write new
// asset, delete original, release claim, in that order; completion is
// re-derived afterwards from the baseline tree.
func (m *Manager) Submit(ctx context.Context, packID, token, userID string, data []byte, declaredType string) (SubmitOutcome, error) {
	handle, ok := m.readyHandle(packID)
	if !ok {
		return SubmitOutcome{Code: SubmitNotAssigned}, nil
	}

	if !validToken(token) {
		return SubmitOutcome{Code: SubmitNotAssigned}, nil
	}

	claimant, held, err := handle.store.ClaimantOf(ctx, token)
	if err != nil {
		return SubmitOutcome{}, err
	}
	if !held || claimant != userID {
		return SubmitOutcome{Code: SubmitNotAssigned}, nil
	}

	originalPath := handle.pack.OriginalPath(token)
	if _, err := os.Stat(originalPath); err != nil {
		return SubmitOutcome{Code: SubmitNotAssigned}, nil
	}

	mediaType, err := normalize.DetectMediaType(declaredType)
	if err != nil {
		if errors.Is(err, normalize.ErrInvalidSubmission) {
			return SubmitOutcome{Code: SubmitRejected, Reason: err.Error()}, nil
		}
		return SubmitOutcome{}, err
	}

	select {
	case m.sem <- struct{}{}:
		defer func() { <-m.sem }()
	case <-ctx.Done():
		return SubmitOutcome{}, ctx.Err()
	}

	normalized, err := m.normalizer.Normalize(ctx, mediaType, data, originalPath)
	if err != nil {
		if errors.Is(err, normalize.ErrInvalidSubmission) {
			return SubmitOutcome{Code: SubmitRejected, Reason: err.Error()}, nil
		}
		return SubmitOutcome{}, err
	}

	if err := fileutil.WriteFile(handle.pack.NewPath(token), normalized); err != nil {
		return SubmitOutcome{}, err
	}
	if err := os.Remove(originalPath); err != nil {
		return SubmitOutcome{}, err
	}
	if err := handle.store.Release(ctx, token); err != nil {
		return SubmitOutcome{}, err
	}

	m.logger.Info("submission accepted",
		slog.String("pack", handle.pack.ID),
		slog.String("asset", token),
		slog.String("user", userID),
	)

	complete, err := handle.pack.IsComplete()
	if err != nil {
		return SubmitOutcome{}, err
	}
	if !complete {
		return SubmitOutcome{Code: SubmitAccepted}, nil
	}

	archive, err := handle.pack.Archive()
	if err != nil {
		return SubmitOutcome{}, err
	}

	m.mu.Lock()
	handle.status = StatusCompleted
	m.mu.Unlock()

	m.logger.Info("pack completed", slog.String("pack", handle.pack.ID))
	if err := m.gateway.PackCompleted(ctx, handle.pack.ID, archive); err != nil {
		m.logger.Warn("pack completion announcement failed",
			slog.String("pack", handle.pack.ID),
			slog.String("error", err.Error()),
		)
	}
	return SubmitOutcome{Code: SubmitAccepted, PackCompleted: true}, nil
}

// validToken accepts only the exact relative slash paths handed out as
// correlation tokens. Anything that could resolve outside the baseline tree
// is treated as not assigned.
func validToken(token string) bool {
	if token == "" || strings.HasPrefix(token, "/") || strings.Contains(token, "\\") {
		return false
	}
	if path.Clean(token) != token {
		return false
	}
	for _, segment := range strings.Split(token, "/") {
		if segment == ".." || segment == "." {
			return false
		}
	}
	return true
}
