package services

import (
	"errors"
	"math"
	"testing"

	"github.com/carvoy/importcost-api/internal/domain"
)

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestParseFeeRuleFixed(t *testing.T) {
	rule, err := ParseFeeRule(domain.FeeRuleFixed, "450")
	if err != nil {
		t.Fatalf("parse fixed: %v", err)
	}
	fee, err := rule.Evaluate(8000)
	if err != nil {
		t.Fatalf("evaluate fixed: %v", err)
	}
	if !nearlyEqual(fee, 450) {
		t.Fatalf("expected 450, got %v", fee)
	}
}

func TestParseFeeRulePercentage(t *testing.T) {
	rule, err := ParseFeeRule(domain.FeeRulePercentage, "10")
	if err != nil {
		t.Fatalf("parse percentage: %v", err)
	}
	fee, err := rule.Evaluate(200)
	if err != nil {
		t.Fatalf("evaluate percentage: %v", err)
	}
	if !nearlyEqual(fee, 20) {
		t.Fatalf("expected 20, got %v", fee)
	}
}

func TestParseFeeRuleMalformed(t *testing.T) {
	cases := []struct {
		name string
		kind domain.FeeRuleType
		raw  string
	}{
		{"bad fixed", domain.FeeRuleFixed, "abc"},
		{"bad percentage", domain.FeeRulePercentage, ""},
		{"bad tier json", domain.FeeRuleTiered, "{not json"},
		{"empty tier list", domain.FeeRuleTiered, "[]"},
		{"unknown kind", domain.FeeRuleType("flat"), "10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseFeeRule(tc.kind, tc.raw); !errors.Is(err, errMalformedFeeValue) {
				t.Fatalf("expected malformed fee value error, got %v", err)
			}
		})
	}
}

func TestEvaluateTieredFirstMatchWins(t *testing.T) {
	raw := `[{"min":0,"max":999.99,"fee":50},{"min":500,"max":2000,"fee":75}]`
	rule, err := ParseFeeRule(domain.FeeRuleTiered, raw)
	if err != nil {
		t.Fatalf("parse tiered: %v", err)
	}
	fee, err := rule.Evaluate(750)
	if err != nil {
		t.Fatalf("evaluate tiered: %v", err)
	}
	if !nearlyEqual(fee, 50) {
		t.Fatalf("expected first matching tier fee 50, got %v", fee)
	}
}

func TestEvaluateTieredPercentageAbove(t *testing.T) {
	raw := `[{"min":1500,"max":1000000,"fee":100,"percentageAbove":2}]`
	rule, err := ParseFeeRule(domain.FeeRuleTiered, raw)
	if err != nil {
		t.Fatalf("parse tiered: %v", err)
	}

	// Exactly at the tier floor the marginal part is zero.
	fee, err := rule.Evaluate(1500)
	if err != nil {
		t.Fatalf("evaluate at floor: %v", err)
	}
	if !nearlyEqual(fee, 100) {
		t.Fatalf("expected 100 at tier floor, got %v", fee)
	}

	fee, err = rule.Evaluate(8000)
	if err != nil {
		t.Fatalf("evaluate above floor: %v", err)
	}
	if !nearlyEqual(fee, 100+(8000-1500)*0.02) {
		t.Fatalf("expected 230, got %v", fee)
	}
}

func TestEvaluateTieredNoMatch(t *testing.T) {
	rule, err := ParseFeeRule(domain.FeeRuleTiered, `[{"min":0,"max":100,"fee":10}]`)
	if err != nil {
		t.Fatalf("parse tiered: %v", err)
	}
	if _, err := rule.Evaluate(250); !errors.Is(err, errNoTierMatch) {
		t.Fatalf("expected no tier match error, got %v", err)
	}
}

func TestDefaultBuyerFeeBands(t *testing.T) {
	cases := []struct {
		price float64
		want  float64
	}{
		{50, 1},
		{99.99, 1},
		{100, 25},
		{499.99, 25},
		{500, 50},
		{999.99, 50},
		{1000, 75},
		{1499.99, 75},
		{1500, 100},
		{8000, 230},
	}
	for _, tc := range cases {
		if got := defaultBuyerFee(tc.price); !nearlyEqual(got, tc.want) {
			t.Fatalf("price %v: expected %v, got %v", tc.price, tc.want, got)
		}
	}
}
