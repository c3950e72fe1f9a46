package services

import (
	"fmt"
	"strconv"

	"github.com/carvoy/importcost-api/internal/domain"
)

// Literal fallbacks applied when no rate row resolves for a stage.
const (
	fallbackDistanceMi    = 1000.0
	fallbackPricePerMile  = 1.5
	fallbackRouteBaseFee  = 200.0
	fallbackNonRunningFee = 100.0
	fallbackDamageFee     = 50.0
	fallbackOceanBase     = 1200.0
	standardPortFee       = 100.0
	fallbackCountry       = "Ukraine"
	fallbackDutyRate      = 10.0
	fallbackClearanceFee  = 150.0
	fallbackBrokerFee     = 200.0
	fallbackVATRate       = 20.0
	fallbackServiceFee    = 500.0
	fallbackDocumentFee   = 200.0
	defaultContainerType  = "roro"
	defaultTransitDays    = 30
)

// stageTotals accumulates the per-stage amounts already computed, so later
// stages can form their bases without re-running earlier ones.
type stageTotals struct {
	auctionFee    float64
	usShipping    float64
	oceanShipping float64
	customs       float64
	vendorFees    float64
}

func (t stageTotals) dutyBase(carPrice float64) float64 {
	return carPrice + t.auctionFee + t.usShipping + t.oceanShipping
}

func (t stageTotals) taxBase(carPrice float64) float64 {
	return carPrice + t.auctionFee + t.usShipping + t.oceanShipping + t.customs + t.vendorFees
}

func fmtAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func auctionFeeStage(rates RateCatalog, input CalculatorInput) domain.AuctionFee {
	rate, ok := rates.FindAuction(input.AuctionID)
	if ok {
		if rule, err := ParseFeeRule(rate.BuyerFeeType, rate.BuyerFeeValue); err == nil {
			if buyerFee, err := rule.Evaluate(input.CarPrice); err == nil {
				return domain.AuctionFee{
					FeeBreakdown: domain.FeeBreakdown{
						Amount:      buyerFee + rate.GateFee,
						Formula:     fmt.Sprintf("Buyer Fee: $%.0f + Gate Fee: $%s", buyerFee, fmtAmount(rate.GateFee)),
						Description: fmt.Sprintf("%s auction fees", rate.AuctionName),
					},
					GateFee: rate.GateFee,
				}
			}
		}
	}

	buyerFee := defaultBuyerFee(input.CarPrice)
	return domain.AuctionFee{
		FeeBreakdown: domain.FeeBreakdown{
			Amount:      buyerFee + defaultGateFee,
			Formula:     "Tiered structure based on car price",
			Description: "Default auction fees",
		},
		GateFee: defaultGateFee,
	}
}

func usShippingStage(rates RateCatalog, input CalculatorInput) domain.USShipping {
	distance := fallbackDistanceMi
	pricePerMile := fallbackPricePerMile
	baseFee := fallbackRouteBaseFee
	if route, ok := rates.FindUSRoute(input.VendorID, input.StateOrigin); ok {
		distance = route.DistanceMi
		pricePerMile = route.PricePerMile
		baseFee = route.BaseFee
	}

	var modifiers []domain.FeeLine
	if mod, ok := rates.FindBodyModifier(input.VendorID, input.BodyType); ok && mod.USModifier != 0 {
		modifiers = append(modifiers, domain.FeeLine{
			Name:   fmt.Sprintf("%s surcharge", input.BodyType),
			Amount: mod.USModifier,
		})
	}
	if !input.IsRunning {
		surcharge := fallbackNonRunningFee
		if rule, ok := rates.FindPricingRule(input.VendorID, domain.RuleNonRunningSurcharge); ok {
			surcharge = rule.Value
		}
		modifiers = append(modifiers, domain.FeeLine{Name: "Non-running vehicle", Amount: surcharge})
	}
	if input.HasDamage && input.DamageType != "" && input.DamageType != "none" {
		surcharge := fallbackDamageFee
		if rule, ok := rates.FindPricingRule(input.VendorID, domain.RuleDamageSurcharge); ok {
			surcharge = rule.Value
		}
		modifiers = append(modifiers, domain.FeeLine{
			Name:   fmt.Sprintf("%s damage", input.DamageType),
			Amount: surcharge,
		})
	}

	total := baseFee + distance*pricePerMile
	for _, m := range modifiers {
		total += m.Amount
	}

	return domain.USShipping{
		FeeBreakdown: domain.FeeBreakdown{
			Amount:      total,
			Formula:     fmt.Sprintf("$%s + (%s miles × $%s) + modifiers", fmtAmount(baseFee), fmtAmount(distance), fmtAmount(pricePerMile)),
			Description: fmt.Sprintf("Inland shipping from %s to US port", input.StateOrigin),
		},
		Distance:     distance,
		PricePerMile: pricePerMile,
		BaseFee:      baseFee,
		Modifiers:    modifiers,
	}
}

func oceanShippingStage(rates RateCatalog, input CalculatorInput) domain.OceanShipping {
	baseShipping := fallbackOceanBase
	portName := "destination port"
	if port, ok := rates.FindPort(input.VendorID, input.PortDestination); ok {
		baseShipping = port.BaseOceanShipping
		if port.PortName != "" {
			portName = port.PortName
		}
	}
	if mod, ok := rates.FindBodyModifier(input.VendorID, input.BodyType); ok && mod.OceanModifier != 0 {
		baseShipping += mod.OceanModifier
	}

	return domain.OceanShipping{
		FeeBreakdown: domain.FeeBreakdown{
			Amount:      baseShipping + standardPortFee,
			Formula:     fmt.Sprintf("Base shipping: $%s + Port fee: $%s", fmtAmount(baseShipping), fmtAmount(standardPortFee)),
			Description: fmt.Sprintf("Ocean shipping to %s", portName),
		},
		ContainerType: defaultContainerType,
		EstimatedDays: defaultTransitDays,
		PortFee:       standardPortFee,
	}
}

func destinationCountry(rates RateCatalog, input CalculatorInput) string {
	if port, ok := rates.FindPort(input.VendorID, input.PortDestination); ok && port.Country != "" {
		return port.Country
	}
	return fallbackCountry
}

func customsClearanceStage(rates RateCatalog, input CalculatorInput, prior stageTotals) domain.CustomsClearance {
	country := destinationCountry(rates, input)

	// Zero-valued fields on a customs row count as missing, same as the
	// VAT rate in the tax stage.
	dutyRate := fallbackDutyRate
	clearanceFee := fallbackClearanceFee
	brokerFee := fallbackBrokerFee
	if rate, ok := rates.FindCustomsRate(country); ok {
		if rate.DutyRate != 0 {
			dutyRate = rate.DutyRate
		}
		if rate.ClearanceFee != 0 {
			clearanceFee = rate.ClearanceFee
		}
		if rate.BrokerFee != 0 {
			brokerFee = rate.BrokerFee
		}
	}

	dutyBase := prior.dutyBase(input.CarPrice)
	dutyAmount := dutyBase * dutyRate / 100

	return domain.CustomsClearance{
		FeeBreakdown: domain.FeeBreakdown{
			Amount:      dutyAmount + clearanceFee + brokerFee,
			Formula:     fmt.Sprintf("(%.0f × %s%%) + $%s + $%s", dutyBase, fmtAmount(dutyRate), fmtAmount(clearanceFee), fmtAmount(brokerFee)),
			Description: fmt.Sprintf("Customs clearance in %s", country),
		},
		DutyRate:     dutyRate,
		DutyAmount:   dutyAmount,
		ClearanceFee: clearanceFee,
		BrokerFee:    brokerFee,
	}
}

func vendorFeesStage(rates RateCatalog, input CalculatorInput) domain.VendorFees {
	serviceFee := fallbackServiceFee
	if rule, ok := rates.FindPricingRule(input.VendorID, domain.RuleServiceFee); ok {
		serviceFee = rule.Value
	}
	documentationFee := fallbackDocumentFee
	if rule, ok := rates.FindPricingRule(input.VendorID, domain.RuleDocumentationFee); ok {
		documentationFee = rule.Value
	}

	var additional []domain.FeeLine
	for _, rule := range rates.ListVendorRules(input.VendorID, domain.ReservedRuleTypes...) {
		name := rule.RuleName
		if name == "" {
			name = rule.RuleType
		}
		additional = append(additional, domain.FeeLine{Name: name, Amount: rule.Value})
	}

	total := serviceFee + documentationFee
	for _, fee := range additional {
		total += fee.Amount
	}

	return domain.VendorFees{
		FeeBreakdown: domain.FeeBreakdown{
			Amount:      total,
			Description: "Vendor service fees",
		},
		ServiceFee:       serviceFee,
		DocumentationFee: documentationFee,
		AdditionalFees:   additional,
	}
}

func taxStage(rates RateCatalog, input CalculatorInput, prior stageTotals) domain.TaxCalculation {
	country := destinationCountry(rates, input)

	vatRate := fallbackVATRate
	if rate, ok := rates.FindCustomsRate(country); ok && rate.VATRate != 0 {
		vatRate = rate.VATRate
	}

	taxableAmount := prior.taxBase(input.CarPrice)

	return domain.TaxCalculation{
		FeeBreakdown: domain.FeeBreakdown{
			Amount:      taxableAmount * vatRate / 100,
			Formula:     fmt.Sprintf("%.0f × %s%%", taxableAmount, fmtAmount(vatRate)),
			Description: fmt.Sprintf("VAT (%s%%)", fmtAmount(vatRate)),
		},
		Rate:          vatRate,
		TaxableAmount: taxableAmount,
	}
}
