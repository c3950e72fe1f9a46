package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/carvoy/importcost-api/internal/catalog"
	"github.com/carvoy/importcost-api/internal/domain"
)

// RateRepository reads the rate tables into catalog data. Rows are returned
// in insertion order so the catalog's first-listed-wins policy is stable.
type RateRepository struct {
	db *sql.DB
}

// NewRateRepository wraps the database handle.
func NewRateRepository(db *sql.DB) *RateRepository {
	return &RateRepository{db: db}
}

// LoadRates reads all six rate tables.
func (r *RateRepository) LoadRates(ctx context.Context) (catalog.Data, error) {
	var data catalog.Data
	var err error

	if data.Auctions, err = r.loadAuctions(ctx); err != nil {
		return catalog.Data{}, err
	}
	if data.Ports, err = r.loadPorts(ctx); err != nil {
		return catalog.Data{}, err
	}
	if data.USRoutes, err = r.loadUSRoutes(ctx); err != nil {
		return catalog.Data{}, err
	}
	if data.BodyModifiers, err = r.loadBodyModifiers(ctx); err != nil {
		return catalog.Data{}, err
	}
	if data.CustomsRates, err = r.loadCustomsRates(ctx); err != nil {
		return catalog.Data{}, err
	}
	if data.PricingRules, err = r.loadPricingRules(ctx); err != nil {
		return catalog.Data{}, err
	}

	return data, nil
}

func (r *RateRepository) loadAuctions(ctx context.Context) ([]domain.AuctionRate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT auction_id, auction_name, buyer_fee_type, buyer_fee_value, gate_fee, active
		FROM auction_rates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query auction rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.AuctionRate
	for rows.Next() {
		var rate domain.AuctionRate
		if err := rows.Scan(&rate.AuctionID, &rate.AuctionName, &rate.BuyerFeeType, &rate.BuyerFeeValue, &rate.GateFee, &rate.Active); err != nil {
			return nil, fmt.Errorf("scan auction rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate auction rates: %w", err)
	}
	return rates, nil
}

func (r *RateRepository) loadPorts(ctx context.Context) ([]domain.PortRate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT vendor_id, port_id, port_name, country, city, base_ocean_shipping, active
		FROM port_rates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query port rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.PortRate
	for rows.Next() {
		var rate domain.PortRate
		if err := rows.Scan(&rate.VendorID, &rate.PortID, &rate.PortName, &rate.Country, &rate.City, &rate.BaseOceanShipping, &rate.Active); err != nil {
			return nil, fmt.Errorf("scan port rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate port rates: %w", err)
	}
	return rates, nil
}

func (r *RateRepository) loadUSRoutes(ctx context.Context) ([]domain.USRoute, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT vendor_id, state_origin, distance_miles, price_per_mile, base_fee, active
		FROM us_routes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query us routes: %w", err)
	}
	defer rows.Close()

	var routes []domain.USRoute
	for rows.Next() {
		var route domain.USRoute
		if err := rows.Scan(&route.VendorID, &route.StateOrigin, &route.DistanceMi, &route.PricePerMile, &route.BaseFee, &route.Active); err != nil {
			return nil, fmt.Errorf("scan us route: %w", err)
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate us routes: %w", err)
	}
	return routes, nil
}

func (r *RateRepository) loadBodyModifiers(ctx context.Context) ([]domain.BodyTypeModifier, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT vendor_id, body_type, us_modifier, ocean_modifier, active
		FROM body_type_modifiers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query body type modifiers: %w", err)
	}
	defer rows.Close()

	var mods []domain.BodyTypeModifier
	for rows.Next() {
		var mod domain.BodyTypeModifier
		if err := rows.Scan(&mod.VendorID, &mod.BodyType, &mod.USModifier, &mod.OceanModifier, &mod.Active); err != nil {
			return nil, fmt.Errorf("scan body type modifier: %w", err)
		}
		mods = append(mods, mod)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate body type modifiers: %w", err)
	}
	return mods, nil
}

func (r *RateRepository) loadCustomsRates(ctx context.Context) ([]domain.CustomsRate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT country, duty_rate, vat_rate, clearance_fee, broker_fee, active
		FROM customs_rates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query customs rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.CustomsRate
	for rows.Next() {
		var rate domain.CustomsRate
		if err := rows.Scan(&rate.Country, &rate.DutyRate, &rate.VATRate, &rate.ClearanceFee, &rate.BrokerFee, &rate.Active); err != nil {
			return nil, fmt.Errorf("scan customs rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customs rates: %w", err)
	}
	return rates, nil
}

func (r *RateRepository) loadPricingRules(ctx context.Context) ([]domain.PricingRule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT vendor_id, rule_type, rule_name, value, sort_order, active
		FROM pricing_rules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query pricing rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.PricingRule
	for rows.Next() {
		var rule domain.PricingRule
		if err := rows.Scan(&rule.VendorID, &rule.RuleType, &rule.RuleName, &rule.Value, &rule.SortOrder, &rule.Active); err != nil {
			return nil, fmt.Errorf("scan pricing rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pricing rules: %w", err)
	}
	return rules, nil
}
