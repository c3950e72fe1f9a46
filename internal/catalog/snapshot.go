package catalog

import (
	"sort"
	"strings"

	"github.com/carvoy/importcost-api/internal/domain"
)

// Data holds the raw rate rows a snapshot is built from. Row order is
// significant: when duplicate rows match a lookup, the first listed wins.
type Data struct {
	Auctions      []domain.AuctionRate
	Ports         []domain.PortRate
	USRoutes      []domain.USRoute
	BodyModifiers []domain.BodyTypeModifier
	CustomsRates  []domain.CustomsRate
	PricingRules  []domain.PricingRule
}

// Snapshot is an immutable, read-only view of the rate tables. The engine
// computes against exactly one snapshot per calculation; reloading rates
// builds a new snapshot rather than mutating an existing one.
type Snapshot struct {
	data Data
}

// NewSnapshot copies the provided rows into an immutable snapshot.
func NewSnapshot(data Data) *Snapshot {
	copied := Data{
		Auctions:      append([]domain.AuctionRate(nil), data.Auctions...),
		Ports:         append([]domain.PortRate(nil), data.Ports...),
		USRoutes:      append([]domain.USRoute(nil), data.USRoutes...),
		BodyModifiers: append([]domain.BodyTypeModifier(nil), data.BodyModifiers...),
		CustomsRates:  append([]domain.CustomsRate(nil), data.CustomsRates...),
		PricingRules:  append([]domain.PricingRule(nil), data.PricingRules...),
	}
	return &Snapshot{data: copied}
}

// resolveVendorScoped applies the two-level precedence shared by every
// vendor-scoped lookup: the first matching row with the caller's vendor ID
// wins outright; otherwise the first matching global row (empty vendor ID)
// is used. A miss on both levels returns false and the stage falls back to
// its literal defaults.
func resolveVendorScoped[T any](rows []T, vendorID string, vendorOf func(T) string, match func(T) bool) (T, bool) {
	var global T
	var haveGlobal bool
	for _, row := range rows {
		if !match(row) {
			continue
		}
		owner := vendorOf(row)
		if vendorID != "" && owner == vendorID {
			return row, true
		}
		if owner == "" && !haveGlobal {
			global = row
			haveGlobal = true
		}
	}
	return global, haveGlobal
}

// FindAuction looks up an auction house by ID. Auction rates are global and
// carry no vendor scope.
func (s *Snapshot) FindAuction(auctionID string) (domain.AuctionRate, bool) {
	for _, row := range s.data.Auctions {
		if row.Active && strings.EqualFold(row.AuctionID, auctionID) {
			return row, true
		}
	}
	return domain.AuctionRate{}, false
}

// FindPort resolves the ocean rate for a destination port.
func (s *Snapshot) FindPort(vendorID, portID string) (domain.PortRate, bool) {
	return resolveVendorScoped(s.data.Ports, vendorID,
		func(r domain.PortRate) string { return r.VendorID },
		func(r domain.PortRate) bool {
			return r.Active && strings.EqualFold(r.PortID, portID)
		})
}

// FindUSRoute resolves the inland route for an origin state.
func (s *Snapshot) FindUSRoute(vendorID, stateOrigin string) (domain.USRoute, bool) {
	return resolveVendorScoped(s.data.USRoutes, vendorID,
		func(r domain.USRoute) string { return r.VendorID },
		func(r domain.USRoute) bool {
			return r.Active && strings.EqualFold(r.StateOrigin, stateOrigin)
		})
}

// FindBodyModifier resolves the surcharge row for a vehicle body style.
func (s *Snapshot) FindBodyModifier(vendorID string, bodyType domain.BodyType) (domain.BodyTypeModifier, bool) {
	return resolveVendorScoped(s.data.BodyModifiers, vendorID,
		func(r domain.BodyTypeModifier) string { return r.VendorID },
		func(r domain.BodyTypeModifier) bool {
			return r.Active && r.BodyType == bodyType
		})
}

// FindCustomsRate looks up the duty schedule for a destination country.
// Customs rates are global.
func (s *Snapshot) FindCustomsRate(country string) (domain.CustomsRate, bool) {
	for _, row := range s.data.CustomsRates {
		if row.Active && strings.EqualFold(row.Country, country) {
			return row, true
		}
	}
	return domain.CustomsRate{}, false
}

// FindPricingRule resolves a single fee rule by type.
func (s *Snapshot) FindPricingRule(vendorID, ruleType string) (domain.PricingRule, bool) {
	return resolveVendorScoped(s.data.PricingRules, vendorID,
		func(r domain.PricingRule) string { return r.VendorID },
		func(r domain.PricingRule) bool {
			return r.Active && r.RuleType == ruleType
		})
}

// ListVendorRules returns the active rules belonging to exactly this vendor,
// skipping the given rule types, ordered by sort order then original
// position. Global rules are excluded; additional vendor fees only apply to
// the vendor that configured them.
func (s *Snapshot) ListVendorRules(vendorID string, excludingTypes ...string) []domain.PricingRule {
	if vendorID == "" {
		return nil
	}
	excluded := make(map[string]struct{}, len(excludingTypes))
	for _, t := range excludingTypes {
		excluded[t] = struct{}{}
	}
	var rules []domain.PricingRule
	for _, row := range s.data.PricingRules {
		if !row.Active || row.VendorID != vendorID {
			continue
		}
		if _, skip := excluded[row.RuleType]; skip {
			continue
		}
		rules = append(rules, row)
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].SortOrder < rules[j].SortOrder
	})
	return rules
}
