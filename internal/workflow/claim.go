package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path"

	"packsmith/internal/assignment"
	"packsmith/internal/catalog"
	"packsmith/internal/messaging"
)

// Claim hands userID a random unclaimed asset of the requested kind. The
// assignment store is the serialization point: under concurrent claims for the
// last asset exactly one caller wins. A failed delivery releases the claim so
// the asset returns to the candidate set.
func (m *Manager) Claim(ctx context.Context, packID string, kind catalog.Kind, userID string) (ClaimOutcome, error) {
	if !kind.Distributable() {
		return ClaimOutcome{}, fmt.Errorf("%s assets are not distributed for replacement", kind)
	}

	handle, ok := m.readyHandle(packID)
	if !ok {
		return ClaimOutcome{Code: ClaimPackUnavailable}, nil
	}

	candidates, err := catalog.Scan(handle.pack.OriginalRoot(), kind)
	if err != nil {
		return ClaimOutcome{}, err
	}
	claimed, err := handle.store.ClaimedPaths(ctx)
	if err != nil {
		return ClaimOutcome{}, err
	}

	available := candidates[:0]
	for _, candidate := range candidates {
		if _, taken := claimed[candidate]; !taken {
			available = append(available, candidate)
		}
	}
	if len(available) == 0 {
		return ClaimOutcome{Code: ClaimNoneAvailable}, nil
	}

	// Walk the candidates in random order; a conflict on one candidate just
	// means another claim landed first, so move on to the next.
	lastClaimant := ""
	for _, idx := range rand.Perm(len(available)) {
		assetPath := available[idx]
		result, err := handle.store.Claim(ctx, assetPath, userID)
		if err != nil {
			return ClaimOutcome{}, err
		}
		switch result.Outcome {
		case assignment.OutcomeClaimed:
			return m.deliver(ctx, handle, assetPath, userID)
		case assignment.OutcomeUserBusy:
			return ClaimOutcome{Code: ClaimUserBusy, HeldPath: result.HeldPath}, nil
		case assignment.OutcomeAlreadyTaken:
			lastClaimant = result.Claimant
		}
	}
	return ClaimOutcome{Code: ClaimAlreadyTaken, Claimant: lastClaimant}, nil
}

func (m *Manager) deliver(ctx context.Context, handle *packHandle, assetPath, userID string) (ClaimOutcome, error) {
	data, err := os.ReadFile(handle.pack.OriginalPath(assetPath))
	if err != nil {
		_ = handle.store.Release(ctx, assetPath)
		return ClaimOutcome{}, fmt.Errorf("read original asset: %w", err)
	}

	delivery := messaging.Delivery{
		Filename: path.Base(assetPath),
		Token:    assetPath,
		Data:     data,
	}
	if err := m.gateway.DeliverAsset(ctx, userID, delivery); err != nil {
		_ = handle.store.Release(ctx, assetPath)
		return ClaimOutcome{}, fmt.Errorf("deliver asset: %w", err)
	}

	m.logger.Info("asset assigned",
		slog.String("pack", handle.pack.ID),
		slog.String("asset", assetPath),
		slog.String("user", userID),
	)
	return ClaimOutcome{Code: ClaimAssigned, AssetPath: assetPath}, nil
}
