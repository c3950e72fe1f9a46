package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/carvoy/importcost-api/internal/catalog"
	"github.com/carvoy/importcost-api/internal/repositories"
)

const defaultSnapshotTTL = 5 * time.Minute

// RateCatalogProviderDeps configures a RateCatalogProvider.
type RateCatalogProviderDeps struct {
	Rates  repositories.RateRepository
	TTL    time.Duration
	Now    func() time.Time
	Logger *zap.Logger
}

// RateCatalogProvider serves immutable rate snapshots, reloading from the
// repository once the cached snapshot is older than the TTL. Calculations in
// flight keep the snapshot they started with.
type RateCatalogProvider struct {
	rates  repositories.RateRepository
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu       sync.RWMutex
	snapshot *catalog.Snapshot
	loadedAt time.Time
}

// NewRateCatalogProvider validates dependencies and constructs the provider.
func NewRateCatalogProvider(deps RateCatalogProviderDeps) (*RateCatalogProvider, error) {
	if deps.Rates == nil {
		return nil, errors.New("rate catalog provider: rate repository is required")
	}
	ttl := deps.TTL
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateCatalogProvider{
		rates:  deps.Rates,
		ttl:    ttl,
		now:    now,
		logger: logger,
	}, nil
}

// Snapshot returns the cached snapshot, reloading it first when stale. A
// failed reload keeps serving the previous snapshot if one exists.
func (p *RateCatalogProvider) Snapshot(ctx context.Context) (RateCatalog, error) {
	p.mu.RLock()
	snap, loadedAt := p.snapshot, p.loadedAt
	p.mu.RUnlock()

	if snap != nil && p.now().Sub(loadedAt) < p.ttl {
		return snap, nil
	}

	if err := p.Reload(ctx); err != nil {
		if snap != nil {
			p.logger.Warn("rate reload failed, serving stale snapshot", zap.Error(err))
			return snap, nil
		}
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot, nil
}

// Reload fetches the rate tables and swaps in a fresh snapshot.
func (p *RateCatalogProvider) Reload(ctx context.Context) error {
	data, err := p.rates.LoadRates(ctx)
	if err != nil {
		return fmt.Errorf("load rates: %w", err)
	}

	p.mu.Lock()
	p.snapshot = catalog.NewSnapshot(data)
	p.loadedAt = p.now()
	p.mu.Unlock()

	p.logger.Debug("rate snapshot reloaded",
		zap.Int("auctions", len(data.Auctions)),
		zap.Int("ports", len(data.Ports)),
		zap.Int("pricing_rules", len(data.PricingRules)),
	)
	return nil
}
