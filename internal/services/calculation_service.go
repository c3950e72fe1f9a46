package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/carvoy/importcost-api/internal/repositories"
)

// ErrCalculationNotFound is returned when a saved calculation does not exist.
var ErrCalculationNotFound = errors.New("calculation not found")

const defaultHistoryLimit = 50

// Calculator runs one cost calculation.
type Calculator interface {
	Calculate(ctx context.Context, input CalculatorInput) (CalculationResult, error)
}

// CalculationServiceDeps enumerates the collaborators for the calculation
// service.
type CalculationServiceDeps struct {
	Engine       Calculator
	Calculations repositories.CalculationRepository
	HistoryLimit int
	Logger       *zap.Logger
}

type calculationService struct {
	engine       Calculator
	calculations repositories.CalculationRepository
	historyLimit int
	logger       *zap.Logger
}

// NewCalculationService wires the engine to result persistence.
func NewCalculationService(deps CalculationServiceDeps) (CalculationService, error) {
	if deps.Engine == nil {
		return nil, errors.New("calculation service: engine is required")
	}
	if deps.Calculations == nil {
		return nil, errors.New("calculation service: calculation repository is required")
	}
	historyLimit := deps.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &calculationService{
		engine:       deps.Engine,
		calculations: deps.Calculations,
		historyLimit: historyLimit,
		logger:       logger,
	}, nil
}

// Calculate runs the pipeline and persists the result for authenticated
// callers. Anonymous calculations are returned without being saved.
func (s *calculationService) Calculate(ctx context.Context, cmd CalculateCommand) (CalculationResult, error) {
	result, err := s.engine.Calculate(ctx, cmd.Input)
	if err != nil {
		return CalculationResult{}, err
	}

	if cmd.UserID == "" {
		return result, nil
	}

	record := repositories.CalculationRecord{
		ID:        result.ID,
		UserID:    cmd.UserID,
		VendorID:  result.VendorID,
		Total:     result.Total,
		Currency:  result.Currency,
		Result:    result,
		CreatedAt: result.CalculatedAt,
	}
	if err := s.calculations.Insert(ctx, record); err != nil {
		return CalculationResult{}, fmt.Errorf("persist calculation %s: %w", result.ID, err)
	}

	s.logger.Info("calculation saved",
		zap.String("calculation_id", result.ID),
		zap.String("vendor_id", result.VendorID),
	)
	return result, nil
}

// ListCalculations returns recent saved calculations, newest first, capped
// at the configured history limit.
func (s *calculationService) ListCalculations(ctx context.Context, query CalculationListQuery) ([]CalculationSummary, error) {
	limit := query.Limit
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}

	records, err := s.calculations.List(ctx, repositories.CalculationListFilter{
		UserID:   query.UserID,
		VendorID: query.VendorID,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}

	summaries := make([]CalculationSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, CalculationSummary{
			ID:        record.ID,
			UserID:    record.UserID,
			VendorID:  record.VendorID,
			Total:     record.Total,
			Currency:  record.Currency,
			CreatedAt: record.CreatedAt,
		})
	}
	return summaries, nil
}

// GetCalculation fetches one saved result by ID.
func (s *calculationService) GetCalculation(ctx context.Context, calculationID string) (CalculationResult, error) {
	record, err := s.calculations.Get(ctx, calculationID)
	if err != nil {
		if errors.Is(err, repositories.ErrCalculationNotFound) {
			return CalculationResult{}, fmt.Errorf("%w: %s", ErrCalculationNotFound, calculationID)
		}
		return CalculationResult{}, fmt.Errorf("get calculation %s: %w", calculationID, err)
	}
	return record.Result, nil
}
