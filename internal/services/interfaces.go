package services

import (
	"context"

	"github.com/carvoy/importcost-api/internal/domain"
)

// Domain aliases keep service signatures terse while the canonical types
// live in the domain package.
type (
	CalculatorInput      = domain.CalculatorInput
	CalculationResult    = domain.CalculationResult
	CalculationSummary   = domain.CalculationSummary
	CalculationBreakdown = domain.CalculationBreakdown
)

// RateCatalog is the read-only rate view a calculation runs against. Every
// vendor-scoped lookup prefers the vendor's own row over the global row;
// a false return means the stage should apply its literal fallback.
type RateCatalog interface {
	FindAuction(auctionID string) (domain.AuctionRate, bool)
	FindPort(vendorID, portID string) (domain.PortRate, bool)
	FindUSRoute(vendorID, stateOrigin string) (domain.USRoute, bool)
	FindBodyModifier(vendorID string, bodyType domain.BodyType) (domain.BodyTypeModifier, bool)
	FindCustomsRate(country string) (domain.CustomsRate, bool)
	FindPricingRule(vendorID, ruleType string) (domain.PricingRule, bool)
	ListVendorRules(vendorID string, excludingTypes ...string) []domain.PricingRule
}

// CatalogProvider hands out the current rate snapshot. A calculation uses
// exactly one snapshot from start to finish.
type CatalogProvider interface {
	Snapshot(ctx context.Context) (RateCatalog, error)
}

// CalculateCommand carries one calculation request. UserID is empty for
// anonymous callers; results are persisted only when it is set.
type CalculateCommand struct {
	Input  CalculatorInput
	UserID string
}

// CalculationListQuery filters saved calculation listings.
type CalculationListQuery struct {
	UserID   string
	VendorID string
	Limit    int
}

// CalculationService runs calculations and serves saved results.
type CalculationService interface {
	Calculate(ctx context.Context, cmd CalculateCommand) (CalculationResult, error)
	ListCalculations(ctx context.Context, query CalculationListQuery) ([]CalculationSummary, error)
	GetCalculation(ctx context.Context, calculationID string) (CalculationResult, error)
}
