package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carvoy/importcost-api/internal/catalog"
	"github.com/carvoy/importcost-api/internal/domain"
)

type fakeRateRepo struct {
	data  catalog.Data
	err   error
	loads int
}

func (f *fakeRateRepo) LoadRates(context.Context) (catalog.Data, error) {
	f.loads++
	if f.err != nil {
		return catalog.Data{}, f.err
	}
	return f.data, nil
}

func TestSnapshotCachesWithinTTL(t *testing.T) {
	repo := &fakeRateRepo{}
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	provider, err := NewRateCatalogProvider(RateCatalogProviderDeps{
		Rates: repo,
		TTL:   time.Minute,
		Now:   func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	if _, err := provider.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := provider.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if repo.loads != 1 {
		t.Fatalf("expected 1 load within TTL, got %d", repo.loads)
	}

	now = now.Add(2 * time.Minute)
	if _, err := provider.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot after expiry: %v", err)
	}
	if repo.loads != 2 {
		t.Fatalf("expected reload after TTL, got %d loads", repo.loads)
	}
}

func TestSnapshotServesStaleOnReloadFailure(t *testing.T) {
	repo := &fakeRateRepo{
		data: catalog.Data{
			Auctions: []domain.AuctionRate{{AuctionID: "copart", Active: true}},
		},
	}
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	provider, err := NewRateCatalogProvider(RateCatalogProviderDeps{
		Rates: repo,
		TTL:   time.Minute,
		Now:   func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	if _, err := provider.Snapshot(context.Background()); err != nil {
		t.Fatalf("initial snapshot: %v", err)
	}

	repo.err = errors.New("db gone")
	now = now.Add(2 * time.Minute)

	snap, err := provider.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("expected stale snapshot, got error %v", err)
	}
	if _, ok := snap.FindAuction("copart"); !ok {
		t.Fatalf("stale snapshot missing auction row")
	}
}

func TestSnapshotFailsWhenNeverLoaded(t *testing.T) {
	repo := &fakeRateRepo{err: errors.New("db gone")}
	provider, err := NewRateCatalogProvider(RateCatalogProviderDeps{Rates: repo})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	if _, err := provider.Snapshot(context.Background()); err == nil {
		t.Fatalf("expected error with no cached snapshot")
	}
}
