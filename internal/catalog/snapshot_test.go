package catalog

import (
	"testing"

	"github.com/carvoy/importcost-api/internal/domain"
)

func TestFindPortPrefersVendorRow(t *testing.T) {
	snap := NewSnapshot(Data{
		Ports: []domain.PortRate{
			{PortID: "port-odessa", BaseOceanShipping: 1150, Active: true},
			{VendorID: "vendor_1", PortID: "port-odessa", BaseOceanShipping: 990, Active: true},
		},
	})

	rate, ok := snap.FindPort("vendor_1", "port-odessa")
	if !ok {
		t.Fatalf("expected port rate")
	}
	if rate.BaseOceanShipping != 990 {
		t.Fatalf("expected vendor rate 990, got %v", rate.BaseOceanShipping)
	}
}

func TestFindPortFallsBackToGlobal(t *testing.T) {
	snap := NewSnapshot(Data{
		Ports: []domain.PortRate{
			{VendorID: "vendor_2", PortID: "port-odessa", BaseOceanShipping: 990, Active: true},
			{PortID: "port-odessa", BaseOceanShipping: 1150, Active: true},
		},
	})

	rate, ok := snap.FindPort("vendor_1", "port-odessa")
	if !ok {
		t.Fatalf("expected global port rate")
	}
	if rate.BaseOceanShipping != 1150 {
		t.Fatalf("expected global rate 1150, got %v", rate.BaseOceanShipping)
	}
	if rate.VendorID != "" {
		t.Fatalf("expected global row, got vendor %q", rate.VendorID)
	}
}

func TestFindPortIgnoresInactiveRows(t *testing.T) {
	snap := NewSnapshot(Data{
		Ports: []domain.PortRate{
			{VendorID: "vendor_1", PortID: "port-odessa", BaseOceanShipping: 990, Active: false},
		},
	})

	if _, ok := snap.FindPort("vendor_1", "port-odessa"); ok {
		t.Fatalf("expected no match for inactive row")
	}
}

func TestFindPricingRuleFirstListedWins(t *testing.T) {
	snap := NewSnapshot(Data{
		PricingRules: []domain.PricingRule{
			{VendorID: "vendor_1", RuleType: domain.RuleServiceFee, Value: 450, Active: true},
			{VendorID: "vendor_1", RuleType: domain.RuleServiceFee, Value: 999, Active: true},
		},
	})

	rule, ok := snap.FindPricingRule("vendor_1", domain.RuleServiceFee)
	if !ok {
		t.Fatalf("expected pricing rule")
	}
	if rule.Value != 450 {
		t.Fatalf("expected first listed rule to win, got value %v", rule.Value)
	}
}

func TestFindAuctionMatchesCaseInsensitively(t *testing.T) {
	snap := NewSnapshot(Data{
		Auctions: []domain.AuctionRate{
			{AuctionID: "copart", AuctionName: "Copart", BuyerFeeType: domain.FeeRuleTiered, Active: true},
		},
	})

	if _, ok := snap.FindAuction("Copart"); !ok {
		t.Fatalf("expected case-insensitive auction match")
	}
}

func TestListVendorRulesExcludesOtherVendorsAndGlobals(t *testing.T) {
	snap := NewSnapshot(Data{
		PricingRules: []domain.PricingRule{
			{VendorID: "vendor_1", RuleType: "inspection_fee", SortOrder: 2, Active: true},
			{VendorID: "vendor_1", RuleType: "loading_fee", SortOrder: 1, Active: true},
			{VendorID: "vendor_2", RuleType: "storage_fee", Active: true},
			{RuleType: domain.RuleServiceFee, Active: true},
			{VendorID: "vendor_1", RuleType: domain.RuleDamageSurcharge, Active: true},
			{VendorID: "vendor_1", RuleType: "expired_fee", Active: false},
		},
	})

	rules := snap.ListVendorRules("vendor_1", domain.ReservedRuleTypes...)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].RuleType != "loading_fee" || rules[1].RuleType != "inspection_fee" {
		t.Fatalf("expected sort-order listing, got %q then %q", rules[0].RuleType, rules[1].RuleType)
	}
	if snap.ListVendorRules("") != nil {
		t.Fatalf("expected no rules for empty vendor")
	}
}
