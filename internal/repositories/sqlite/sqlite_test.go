package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/carvoy/importcost-api/internal/db"
	"github.com/carvoy/importcost-api/internal/domain"
	"github.com/carvoy/importcost-api/internal/migrations"
	"github.com/carvoy/importcost-api/internal/repositories"
	"github.com/carvoy/importcost-api/internal/seed"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	handle, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { handle.Close() })

	if err := migrations.Up(handle); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return handle
}

func TestSeedIsIdempotent(t *testing.T) {
	handle := openTestDB(t)

	first, err := seed.Run(handle)
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if first.Inserts == 0 {
		t.Fatalf("expected inserts on first seed")
	}

	second, err := seed.Run(handle)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if second.Inserts != 0 {
		t.Fatalf("expected idempotent second seed, got %d inserts", second.Inserts)
	}
}

func TestLoadRatesReturnsSeededRows(t *testing.T) {
	handle := openTestDB(t)
	if _, err := seed.Run(handle); err != nil {
		t.Fatalf("seed: %v", err)
	}

	data, err := NewRateRepository(handle).LoadRates(context.Background())
	if err != nil {
		t.Fatalf("load rates: %v", err)
	}

	if len(data.Auctions) != 2 {
		t.Fatalf("expected 2 auctions, got %d", len(data.Auctions))
	}
	if data.Auctions[0].AuctionID != "copart" || data.Auctions[0].BuyerFeeType != domain.FeeRuleTiered {
		t.Fatalf("unexpected first auction %+v", data.Auctions[0])
	}
	if len(data.Ports) != 3 || data.Ports[0].Country != "Ukraine" {
		t.Fatalf("unexpected ports %+v", data.Ports)
	}
	if len(data.CustomsRates) != 3 {
		t.Fatalf("expected 3 customs rates, got %d", len(data.CustomsRates))
	}
	if len(data.PricingRules) != 4 {
		t.Fatalf("expected 4 pricing rules, got %d", len(data.PricingRules))
	}
	for _, rule := range data.PricingRules {
		if rule.VendorID != "" || !rule.Active {
			t.Fatalf("expected active global rule, got %+v", rule)
		}
	}
}

func TestCalculationRepositoryRoundtrip(t *testing.T) {
	handle := openTestDB(t)
	repo := NewCalculationRepository(handle)
	ctx := context.Background()

	result := domain.CalculationResult{
		ID:           "calc_01",
		Total:        5485.5,
		Currency:     "USD",
		VendorID:     "v1",
		CalculatedAt: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
		ValidUntil:   time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC),
		Breakdown: domain.CalculationBreakdown{
			AuctionFee: domain.AuctionFee{
				FeeBreakdown: domain.FeeBreakdown{Amount: 305, Description: "Default auction fees"},
				GateFee:      75,
			},
		},
	}
	record := repositories.CalculationRecord{
		ID:        result.ID,
		UserID:    "user_1",
		VendorID:  result.VendorID,
		Total:     result.Total,
		Currency:  result.Currency,
		Result:    result,
		CreatedAt: result.CalculatedAt,
	}

	if err := repo.Insert(ctx, record); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.Get(ctx, "calc_01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Result.Total != 5485.5 || got.Result.Breakdown.AuctionFee.GateFee != 75 {
		t.Fatalf("unexpected stored result %+v", got.Result)
	}
	if !got.CreatedAt.Equal(record.CreatedAt) {
		t.Fatalf("expected created at %v, got %v", record.CreatedAt, got.CreatedAt)
	}
}

func TestCalculationRepositoryListFiltersAndOrders(t *testing.T) {
	handle := openTestDB(t)
	repo := NewCalculationRepository(handle)
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	records := []repositories.CalculationRecord{
		{ID: "calc_01", UserID: "user_1", VendorID: "v1", Total: 100, Currency: "USD", CreatedAt: base},
		{ID: "calc_02", UserID: "user_1", VendorID: "v2", Total: 200, Currency: "USD", CreatedAt: base.Add(time.Hour)},
		{ID: "calc_03", UserID: "user_2", VendorID: "v1", Total: 300, Currency: "USD", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, record := range records {
		record.Result = domain.CalculationResult{ID: record.ID}
		if err := repo.Insert(ctx, record); err != nil {
			t.Fatalf("insert %s: %v", record.ID, err)
		}
	}

	listed, err := repo.List(ctx, repositories.CalculationListFilter{UserID: "user_1", Limit: 50})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 records, got %d", len(listed))
	}
	if listed[0].ID != "calc_02" || listed[1].ID != "calc_01" {
		t.Fatalf("expected newest first, got %q then %q", listed[0].ID, listed[1].ID)
	}

	byVendor, err := repo.List(ctx, repositories.CalculationListFilter{VendorID: "v1", Limit: 1})
	if err != nil {
		t.Fatalf("list by vendor: %v", err)
	}
	if len(byVendor) != 1 || byVendor[0].ID != "calc_03" {
		t.Fatalf("unexpected vendor listing %+v", byVendor)
	}
}

func TestCalculationRepositoryGetMissing(t *testing.T) {
	handle := openTestDB(t)

	_, err := NewCalculationRepository(handle).Get(context.Background(), "calc_missing")
	if !errors.Is(err, repositories.ErrCalculationNotFound) {
		t.Fatalf("expected ErrCalculationNotFound, got %v", err)
	}
}
