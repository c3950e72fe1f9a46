package seed

import (
	"database/sql"
	"fmt"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

const defaultTierSchedule = `[{"min":0,"max":99.99,"fee":1},` +
	`{"min":100,"max":499.99,"fee":25},` +
	`{"min":500,"max":999.99,"fee":50},` +
	`{"min":1000,"max":1499.99,"fee":75},` +
	`{"min":1500,"max":999999999,"fee":100,"percentageAbove":2}]`

// Run inserts the canonical global rate rows if they are missing. It is
// idempotent: a second run inserts nothing.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAuctions(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := seedPorts(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := seedUSRoutes(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := seedCustomsRates(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := seedPricingRules(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAuctions(tx *sql.Tx, stats *Stats) error {
	auctions := []struct {
		id   string
		name string
	}{
		{"copart", "Copart"},
		{"iaai", "IAAI"},
	}
	for _, auction := range auctions {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM auction_rates WHERE auction_id = ? LIMIT 1)`, auction.id).Scan(&exists); err != nil {
			return fmt.Errorf("check auction %s: %w", auction.id, err)
		}
		if exists {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO auction_rates (auction_id, auction_name, buyer_fee_type, buyer_fee_value, gate_fee, active)
			VALUES (?, ?, 'tiered', ?, 75, 1)`,
			auction.id, auction.name, defaultTierSchedule); err != nil {
			return fmt.Errorf("insert auction %s: %w", auction.id, err)
		}
		stats.Inserts++
	}
	return nil
}

func seedPorts(tx *sql.Tx, stats *Stats) error {
	ports := []struct {
		id      string
		name    string
		country string
		city    string
		base    float64
	}{
		{"port-odessa", "Port of Odessa", "Ukraine", "Odessa", 1200},
		{"port-klaipeda", "Port of Klaipeda", "Lithuania", "Klaipeda", 1400},
		{"port-poti", "Port of Poti", "Georgia", "Poti", 1350},
	}
	for _, port := range ports {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM port_rates WHERE port_id = ? AND vendor_id = '' LIMIT 1)`, port.id).Scan(&exists); err != nil {
			return fmt.Errorf("check port %s: %w", port.id, err)
		}
		if exists {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO port_rates (vendor_id, port_id, port_name, country, city, base_ocean_shipping, active)
			VALUES ('', ?, ?, ?, ?, ?, 1)`,
			port.id, port.name, port.country, port.city, port.base); err != nil {
			return fmt.Errorf("insert port %s: %w", port.id, err)
		}
		stats.Inserts++
	}
	return nil
}

func seedUSRoutes(tx *sql.Tx, stats *Stats) error {
	routes := []struct {
		state    string
		distance float64
		perMile  float64
		base     float64
	}{
		{"CA", 1000, 1.5, 200},
		{"TX", 800, 1.5, 180},
		{"FL", 600, 1.5, 150},
		{"NY", 500, 1.5, 150},
		{"GA", 550, 1.5, 150},
		{"WA", 1100, 1.5, 220},
	}
	for _, route := range routes {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM us_routes WHERE state_origin = ? AND vendor_id = '' LIMIT 1)`, route.state).Scan(&exists); err != nil {
			return fmt.Errorf("check us route %s: %w", route.state, err)
		}
		if exists {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO us_routes (vendor_id, state_origin, distance_miles, price_per_mile, base_fee, active)
			VALUES ('', ?, ?, ?, ?, 1)`,
			route.state, route.distance, route.perMile, route.base); err != nil {
			return fmt.Errorf("insert us route %s: %w", route.state, err)
		}
		stats.Inserts++
	}
	return nil
}

func seedCustomsRates(tx *sql.Tx, stats *Stats) error {
	rates := []struct {
		country   string
		duty      float64
		vat       float64
		clearance float64
		broker    float64
	}{
		{"Ukraine", 10, 20, 150, 200},
		{"Lithuania", 10, 21, 120, 180},
		{"Georgia", 5, 18, 100, 150},
	}
	for _, rate := range rates {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM customs_rates WHERE country = ? LIMIT 1)`, rate.country).Scan(&exists); err != nil {
			return fmt.Errorf("check customs rate %s: %w", rate.country, err)
		}
		if exists {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO customs_rates (country, duty_rate, vat_rate, clearance_fee, broker_fee, active)
			VALUES (?, ?, ?, ?, ?, 1)`,
			rate.country, rate.duty, rate.vat, rate.clearance, rate.broker); err != nil {
			return fmt.Errorf("insert customs rate %s: %w", rate.country, err)
		}
		stats.Inserts++
	}
	return nil
}

func seedPricingRules(tx *sql.Tx, stats *Stats) error {
	rules := []struct {
		ruleType string
		ruleName string
		value    float64
	}{
		{"service_fee", "Service fee", 500},
		{"documentation_fee", "Documentation fee", 200},
		{"nonrunning_surcharge", "Non-running surcharge", 100},
		{"damage_surcharge", "Damage surcharge", 50},
	}
	for i, rule := range rules {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM pricing_rules WHERE rule_type = ? AND vendor_id = '' LIMIT 1)`, rule.ruleType).Scan(&exists); err != nil {
			return fmt.Errorf("check pricing rule %s: %w", rule.ruleType, err)
		}
		if exists {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO pricing_rules (vendor_id, rule_type, rule_name, value, sort_order, active)
			VALUES ('', ?, ?, ?, ?, 1)`,
			rule.ruleType, rule.ruleName, rule.value, i); err != nil {
			return fmt.Errorf("insert pricing rule %s: %w", rule.ruleType, err)
		}
		stats.Inserts++
	}
	return nil
}
