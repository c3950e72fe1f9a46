package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/carvoy/importcost-api/internal/domain"
)

var (
	errMalformedFeeValue = errors.New("malformed fee value")
	errNoTierMatch       = errors.New("no tier matches amount")
)

// Tier is one band of a tiered fee schedule. PercentageAbove, when set, is a
// percent applied marginally to the portion of the amount above Min.
type Tier struct {
	Min             float64  `json:"min"`
	Max             float64  `json:"max"`
	Fee             float64  `json:"fee"`
	PercentageAbove *float64 `json:"percentageAbove,omitempty"`
}

// FeeRule is a parsed fee schedule: a flat amount, a percentage of the base
// amount, or a tiered band table.
type FeeRule struct {
	Kind   domain.FeeRuleType
	Amount float64
	Rate   float64
	Tiers  []Tier
}

// ParseFeeRule interprets a rate row's (type, value) pair. Fixed and
// percentage values are decimal strings; tiered values are a JSON array of
// bands. Callers fall back to stage defaults on error.
func ParseFeeRule(kind domain.FeeRuleType, raw string) (FeeRule, error) {
	switch kind {
	case domain.FeeRuleFixed:
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return FeeRule{}, fmt.Errorf("%w: fixed %q", errMalformedFeeValue, raw)
		}
		return FeeRule{Kind: kind, Amount: amount}, nil
	case domain.FeeRulePercentage:
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return FeeRule{}, fmt.Errorf("%w: percentage %q", errMalformedFeeValue, raw)
		}
		return FeeRule{Kind: kind, Rate: rate}, nil
	case domain.FeeRuleTiered:
		var tiers []Tier
		if err := json.Unmarshal([]byte(raw), &tiers); err != nil {
			return FeeRule{}, fmt.Errorf("%w: tiered: %v", errMalformedFeeValue, err)
		}
		if len(tiers) == 0 {
			return FeeRule{}, fmt.Errorf("%w: tiered: empty schedule", errMalformedFeeValue)
		}
		return FeeRule{Kind: kind, Tiers: tiers}, nil
	default:
		return FeeRule{}, fmt.Errorf("%w: unknown fee type %q", errMalformedFeeValue, kind)
	}
}

// Evaluate applies the rule to an amount. Percentage rates are stored as
// percents (10 means 10%). Tiered evaluation picks the first band whose
// [Min, Max] range contains the amount; an unmatched amount is an error so
// the caller can apply its fallback.
func (r FeeRule) Evaluate(amount float64) (float64, error) {
	switch r.Kind {
	case domain.FeeRuleFixed:
		return r.Amount, nil
	case domain.FeeRulePercentage:
		return amount * r.Rate / 100, nil
	case domain.FeeRuleTiered:
		for _, tier := range r.Tiers {
			if amount < tier.Min || amount > tier.Max {
				continue
			}
			if tier.PercentageAbove != nil && amount > tier.Min {
				return tier.Fee + (amount-tier.Min)*(*tier.PercentageAbove)/100, nil
			}
			return tier.Fee, nil
		}
		return 0, fmt.Errorf("%w: %v", errNoTierMatch, amount)
	default:
		return 0, fmt.Errorf("%w: unknown fee type %q", errMalformedFeeValue, r.Kind)
	}
}

// Default buyer fee schedule applied when an auction has no usable rate row.
// Matches the common Copart-style bands with a 2% marginal rate above 1500.
const defaultGateFee = 75.0

func defaultBuyerFee(carPrice float64) float64 {
	switch {
	case carPrice < 100:
		return 1
	case carPrice < 500:
		return 25
	case carPrice < 1000:
		return 50
	case carPrice < 1500:
		return 75
	default:
		return 100 + (carPrice-1500)*0.02
	}
}
