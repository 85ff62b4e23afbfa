package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"packsmith/internal/assignment"
	"packsmith/internal/config"
	"packsmith/internal/logging"
	"packsmith/internal/messaging"
	"packsmith/internal/normalize"
	"packsmith/internal/pack"
)

// BundleFetcher provisions a pack's baseline asset tree.
type BundleFetcher interface {
	Fetch(ctx context.Context, p *pack.Pack, version string) error
}

// Manager owns the lifecycle of every pack under the storage root and is the
// only component that mutates pack state. All claim and submission traffic
// funnels through it.
type Manager struct {
	cfg        *config.Config
	logger     *slog.Logger
	gateway    messaging.Gateway
	normalizer *normalize.Normalizer
	fetcher    BundleFetcher

	// sem bounds concurrent normalization so ingress goroutines cannot queue
	// unbounded media work.
	sem chan struct{}

	mu    sync.Mutex
	packs map[string]*packHandle
}

type packHandle struct {
	pack   *pack.Pack
	store  *assignment.Store
	status Status
}

// NewManager constructs a workflow manager.
func NewManager(cfg *config.Config, logger *slog.Logger, gateway messaging.Gateway, normalizer *normalize.Normalizer, fetcher BundleFetcher) *Manager {
	workers := cfg.Normalize.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Manager{
		cfg:        cfg,
		logger:     logging.WithComponent(logger, "workflow"),
		gateway:    gateway,
		normalizer: normalizer,
		fetcher:    fetcher,
		sem:        make(chan struct{}, workers),
		packs:      make(map[string]*packHandle),
	}
}

// Resume rebuilds pack handles from the storage root. Pack state is derived
// entirely from the on-disk layout, so a restart picks up exactly where the
// previous process stopped.
func (m *Manager) Resume(ctx context.Context) error {
	packs, err := pack.List(m.cfg.Paths.StorageRoot)
	if err != nil {
		return fmt.Errorf("list packs: %w", err)
	}

	for _, p := range packs {
		if err := ctx.Err(); err != nil {
			return err
		}
		store, err := p.OpenStore()
		if err != nil {
			return fmt.Errorf("open store for pack %s: %w", p.ID, err)
		}
		complete, err := p.IsComplete()
		if err != nil {
			_ = store.Close()
			return fmt.Errorf("inspect pack %s: %w", p.ID, err)
		}
		status := StatusReady
		if complete {
			status = StatusCompleted
		}
		m.mu.Lock()
		m.packs[p.ID] = &packHandle{pack: p, store: store, status: status}
		m.mu.Unlock()
		m.logger.Info("pack resumed",
			slog.String("pack", p.ID),
			slog.String("status", string(status)),
		)
	}
	return nil
}

// Close releases every pack's assignment store.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for id, handle := range m.packs {
		if handle.store != nil {
			if err := handle.store.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		delete(m.packs, id)
	}
	return firstErr
}

// CreatePack provisions a new pack: download and extract the baseline for
// version, open the assignment store, and announce readiness. A provisioning
// failure removes the pack root so no partial pack survives.
func (m *Manager) CreatePack(ctx context.Context, id, version string) error {
	p, err := pack.New(m.cfg.Paths.StorageRoot, id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if _, exists := m.packs[p.ID]; exists {
		m.mu.Unlock()
		return fmt.Errorf("pack %q already exists", p.ID)
	}
	if p.Exists() {
		m.mu.Unlock()
		return fmt.Errorf("pack %q already exists on disk", p.ID)
	}
	handle := &packHandle{pack: p, status: StatusProvisioning}
	m.packs[p.ID] = handle
	m.mu.Unlock()

	m.logger.Info("provisioning pack",
		slog.String("pack", p.ID),
		slog.String("version", version),
	)

	if err := m.fetcher.Fetch(ctx, p, version); err != nil {
		m.discard(p)
		return fmt.Errorf("provision pack %s: %w", p.ID, err)
	}
	if err := os.MkdirAll(p.NewRoot(), 0o755); err != nil {
		m.discard(p)
		return fmt.Errorf("create replacement tree: %w", err)
	}
	store, err := p.OpenStore()
	if err != nil {
		m.discard(p)
		return fmt.Errorf("open store for pack %s: %w", p.ID, err)
	}

	m.mu.Lock()
	handle.store = store
	handle.status = StatusReady
	m.mu.Unlock()

	m.logger.Info("pack ready", slog.String("pack", p.ID))
	if err := m.gateway.PackReady(ctx, p.ID); err != nil {
		m.logger.Warn("pack ready announcement failed",
			slog.String("pack", p.ID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// discard removes a failed pack's handle and on-disk remains.
func (m *Manager) discard(p *pack.Pack) {
	m.mu.Lock()
	delete(m.packs, p.ID)
	m.mu.Unlock()
	if err := os.RemoveAll(p.Root); err != nil {
		m.logger.Warn("cleanup of failed pack left residue",
			slog.String("pack", p.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (m *Manager) readyHandle(packID string) (*packHandle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	handle, ok := m.packs[packID]
	if !ok || handle.status != StatusReady {
		return nil, false
	}
	return handle, true
}

// Pack returns the status view of a single pack.
func (m *Manager) Pack(ctx context.Context, packID string) (PackStatus, bool, error) {
	m.mu.Lock()
	handle, ok := m.packs[packID]
	m.mu.Unlock()
	if !ok {
		return PackStatus{}, false, nil
	}
	status, err := m.statusOf(ctx, handle)
	if err != nil {
		return PackStatus{}, false, err
	}
	return status, true, nil
}

// Packs returns the status of every managed pack, ordered by id.
func (m *Manager) Packs(ctx context.Context) ([]PackStatus, error) {
	m.mu.Lock()
	handles := make([]*packHandle, 0, len(m.packs))
	for _, handle := range m.packs {
		handles = append(handles, handle)
	}
	m.mu.Unlock()

	statuses := make([]PackStatus, 0, len(handles))
	for _, handle := range handles {
		status, err := m.statusOf(ctx, handle)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].ID < statuses[j].ID })
	return statuses, nil
}

func (m *Manager) statusOf(ctx context.Context, handle *packHandle) (PackStatus, error) {
	m.mu.Lock()
	status := PackStatus{ID: handle.pack.ID, Status: handle.status}
	m.mu.Unlock()
	if status.Status == StatusProvisioning {
		return status, nil
	}

	remaining, err := handle.pack.Remaining()
	if err != nil {
		return PackStatus{}, fmt.Errorf("inspect pack %s: %w", handle.pack.ID, err)
	}
	status.Remaining = remaining

	if handle.store != nil {
		count, err := handle.store.Count(ctx)
		if err != nil {
			return PackStatus{}, err
		}
		status.ActiveClaims = count
	}
	return status, nil
}

// Claims lists the active claims of a pack.
func (m *Manager) Claims(ctx context.Context, packID string) ([]assignment.Claim, error) {
	m.mu.Lock()
	handle, ok := m.packs[packID]
	m.mu.Unlock()
	if !ok || handle.store == nil {
		return nil, fmt.Errorf("pack %q is not available", packID)
	}
	return handle.store.List(ctx)
}
