package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/carvoy/importcost-api/internal/domain"
)

// ErrInvalidInput indicates the calculator input failed validation. The
// wrapped message names the offending field. No stage runs on invalid input.
var ErrInvalidInput = errors.New("invalid calculator input")

const (
	resultCurrency = "USD"
	resultValidity = 30 * 24 * time.Hour
	minVehicleYear = 1900

	calculationIDPrefix = "calc_"
)

// CalculatorEngineDeps enumerates the collaborators required to build a
// CalculatorEngine. Now and IDGenerator are injectable for deterministic
// tests and default to the real clock and ULID generation.
type CalculatorEngineDeps struct {
	Catalog     CatalogProvider
	Now         func() time.Time
	IDGenerator func() string
	Logger      *zap.Logger
}

// CalculatorEngine runs the six-stage import cost pipeline. Given one rate
// snapshot, a calculation is pure: the same input always yields the same
// amounts.
type CalculatorEngine struct {
	catalog CatalogProvider
	now     func() time.Time
	idGen   func() string
	logger  *zap.Logger
}

// NewCalculatorEngine validates dependencies and constructs the engine.
func NewCalculatorEngine(deps CalculatorEngineDeps) (*CalculatorEngine, error) {
	if deps.Catalog == nil {
		return nil, errors.New("calculator engine: catalog provider is required")
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return calculationIDPrefix + ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalculatorEngine{
		catalog: deps.Catalog,
		now:     now,
		idGen:   idGen,
		logger:  logger,
	}, nil
}

// Calculate validates the input, runs the stages in fixed order against a
// single rate snapshot, and returns an immutable result snapshot valid for
// thirty days.
func (e *CalculatorEngine) Calculate(ctx context.Context, input CalculatorInput) (CalculationResult, error) {
	calculatedAt := e.now().UTC()
	if err := validateInput(input, calculatedAt.Year()); err != nil {
		return CalculationResult{}, err
	}

	rates, err := e.catalog.Snapshot(ctx)
	if err != nil {
		return CalculationResult{}, fmt.Errorf("load rate snapshot: %w", err)
	}

	var totals stageTotals

	auctionFee := auctionFeeStage(rates, input)
	totals.auctionFee = auctionFee.Amount

	usShipping := usShippingStage(rates, input)
	totals.usShipping = usShipping.Amount

	oceanShipping := oceanShippingStage(rates, input)
	totals.oceanShipping = oceanShipping.Amount

	customs := customsClearanceStage(rates, input, totals)
	totals.customs = customs.Amount

	vendorFees := vendorFeesStage(rates, input)
	totals.vendorFees = vendorFees.Amount

	breakdown := domain.CalculationBreakdown{
		AuctionFee:       auctionFee,
		USShipping:       usShipping,
		OceanShipping:    oceanShipping,
		CustomsClearance: customs,
		VendorFees:       vendorFees,
	}

	// The headline total covers the fees only. The car price itself feeds
	// the duty and tax bases but is not part of the quoted import cost.
	total := totals.auctionFee + totals.usShipping +
		totals.oceanShipping + totals.customs + totals.vendorFees

	if input.CalculateTax {
		tax := taxStage(rates, input, totals)
		breakdown.Tax = &tax
		total += tax.Amount
	}

	result := CalculationResult{
		ID:           e.idGen(),
		Breakdown:    breakdown,
		Total:        total,
		Currency:     resultCurrency,
		CalculatedAt: calculatedAt,
		ValidUntil:   calculatedAt.Add(resultValidity),
		VendorID:     input.VendorID,
		Input:        input,
	}

	e.logger.Debug("calculation completed",
		zap.String("calculation_id", result.ID),
		zap.String("vendor_id", input.VendorID),
		zap.Float64("total", result.Total),
	)

	return result, nil
}

func validateInput(input CalculatorInput, currentYear int) error {
	if input.CarPrice <= 0 {
		return fmt.Errorf("%w: carPrice must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(input.AuctionID) == "" {
		return fmt.Errorf("%w: auctionId is required", ErrInvalidInput)
	}
	if len(strings.TrimSpace(input.StateOrigin)) != 2 {
		return fmt.Errorf("%w: stateOrigin must be a 2-letter state code", ErrInvalidInput)
	}
	if strings.TrimSpace(input.PortDestination) == "" {
		return fmt.Errorf("%w: portDestination is required", ErrInvalidInput)
	}
	if !input.BodyType.Valid() {
		return fmt.Errorf("%w: unsupported bodyType %q", ErrInvalidInput, input.BodyType)
	}
	if input.Year < minVehicleYear || input.Year > currentYear+1 {
		return fmt.Errorf("%w: year must be between %d and %d", ErrInvalidInput, minVehicleYear, currentYear+1)
	}
	if strings.TrimSpace(input.VendorID) == "" {
		return fmt.Errorf("%w: vendorId is required", ErrInvalidInput)
	}
	return nil
}
