package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/carvoy/importcost-api/internal/catalog"
	"github.com/carvoy/importcost-api/internal/domain"
)

// ErrCalculationNotFound is returned when a calculation ID does not exist.
var ErrCalculationNotFound = errors.New("calculation not found")

// RateRepository loads the rate tables that back a catalog snapshot.
type RateRepository interface {
	LoadRates(ctx context.Context) (catalog.Data, error)
}

// CalculationRecord is the persisted form of one calculation run.
type CalculationRecord struct {
	ID        string
	UserID    string
	VendorID  string
	Total     float64
	Currency  string
	Result    domain.CalculationResult
	CreatedAt time.Time
}

// CalculationListFilter narrows a history listing. Zero-value fields are
// ignored; Limit caps the row count.
type CalculationListFilter struct {
	UserID   string
	VendorID string
	Limit    int
}

// CalculationRepository stores and serves saved calculation results.
type CalculationRepository interface {
	Insert(ctx context.Context, record CalculationRecord) error
	List(ctx context.Context, filter CalculationListFilter) ([]CalculationRecord, error)
	Get(ctx context.Context, calculationID string) (CalculationRecord, error)
}
