package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/carvoy/importcost-api/internal/platform/auth"
	"github.com/carvoy/importcost-api/internal/platform/httpx"
	"github.com/carvoy/importcost-api/internal/platform/requestctx"
	"github.com/carvoy/importcost-api/internal/services"
)

// CalculatorHandlers serves the calculation endpoints.
type CalculatorHandlers struct {
	service services.CalculationService
}

// NewCalculatorHandlers validates dependencies and constructs the handlers.
func NewCalculatorHandlers(service services.CalculationService) (*CalculatorHandlers, error) {
	if service == nil {
		return nil, errors.New("calculator handlers: calculation service is required")
	}
	return &CalculatorHandlers{service: service}, nil
}

// Routes returns the registrar mounting the calculation endpoints.
// optionalAuth lets anonymous callers calculate; requireAuth guards the
// history reads.
func (h *CalculatorHandlers) Routes(optionalAuth, requireAuth func(http.Handler) http.Handler) RouteRegistrar {
	return func(r chi.Router) {
		r.With(optionalAuth).Post("/calculate", h.Calculate)
		r.Group(func(g chi.Router) {
			g.Use(requireAuth)
			g.Get("/calculations", h.ListCalculations)
			g.Get("/calculations/{calculationId}", h.GetCalculation)
		})
	}
}

// Calculate runs one cost calculation.
func (h *CalculatorHandlers) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readLimitedBody(r, maxRequestBodySize)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var input services.CalculatorInput
	if err := json.Unmarshal(body, &input); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_json", "request body is not valid JSON", http.StatusBadRequest))
		return
	}

	cmd := services.CalculateCommand{Input: input}
	if identity, ok := auth.IdentityFromContext(ctx); ok {
		cmd.UserID = identity.UserID
	}

	result, err := h.service.Calculate(ctx, cmd)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			httpx.WriteError(ctx, w, httpx.NewError("validation_error", err.Error(), http.StatusBadRequest))
			return
		}
		requestctx.Logger(ctx).Error("calculation failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "calculation failed", http.StatusInternalServerError))
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    result,
	})
}

// ListCalculations returns the caller's recent saved calculations. Admins
// can list any vendor's calculations via the vendorId query parameter;
// vendor users only their own vendor's.
func (h *CalculatorHandlers) ListCalculations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
		return
	}

	query := services.CalculationListQuery{UserID: identity.UserID}
	if vendorID := r.URL.Query().Get("vendorId"); vendorID != "" {
		allowed := identity.HasRole(auth.RoleAdmin) ||
			(identity.HasRole(auth.RoleVendor) && identity.VendorID == vendorID)
		if !allowed {
			httpx.WriteError(ctx, w, httpx.NewError("forbidden", "cannot list another vendor's calculations", http.StatusForbidden))
			return
		}
		query = services.CalculationListQuery{VendorID: vendorID}
	}

	summaries, err := h.service.ListCalculations(ctx, query)
	if err != nil {
		requestctx.Logger(ctx).Error("list calculations failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "failed to list calculations", http.StatusInternalServerError))
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    summaries,
	})
}

// GetCalculation fetches one saved result by ID.
func (h *CalculatorHandlers) GetCalculation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	calculationID := chi.URLParam(r, "calculationId")
	result, err := h.service.GetCalculation(ctx, calculationID)
	if err != nil {
		if errors.Is(err, services.ErrCalculationNotFound) {
			httpx.WriteError(ctx, w, httpx.NewError("calculation_not_found", "calculation not found", http.StatusNotFound))
			return
		}
		requestctx.Logger(ctx).Error("get calculation failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "failed to load calculation", http.StatusInternalServerError))
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    result,
	})
}
