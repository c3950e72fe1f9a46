package domain

// FeeRuleType tags how an auction's buyer fee value is interpreted.
type FeeRuleType string

const (
	FeeRuleFixed      FeeRuleType = "fixed"
	FeeRulePercentage FeeRuleType = "percentage"
	FeeRuleTiered     FeeRuleType = "tiered"
)

// Reserved pricing rule types consumed by named pipeline stages. Any other
// active vendor rule is treated as an additional vendor fee.
const (
	RuleServiceFee          = "service_fee"
	RuleDocumentationFee    = "documentation_fee"
	RuleNonRunningSurcharge = "nonrunning_surcharge"
	RuleDamageSurcharge     = "damage_surcharge"
)

// ReservedRuleTypes lists the rule types handled by dedicated stages.
var ReservedRuleTypes = []string{
	RuleServiceFee,
	RuleDocumentationFee,
	RuleNonRunningSurcharge,
	RuleDamageSurcharge,
}

// AuctionRate describes one auction house's buyer fee schedule. Auction rates
// are global; they carry no vendor scope. BuyerFeeValue is a decimal string
// for fixed and percentage schedules and a JSON tier array for tiered ones.
type AuctionRate struct {
	AuctionID     string
	AuctionName   string
	BuyerFeeType  FeeRuleType
	BuyerFeeValue string
	GateFee       float64
	Active        bool
}

// PortRate is the ocean freight base for a destination port, optionally
// scoped to a vendor. Empty VendorID means global.
type PortRate struct {
	VendorID          string
	PortID            string
	PortName          string
	Country           string
	City              string
	BaseOceanShipping float64
	Active            bool
}

// USRoute is an inland transport route from an origin state to the nearest
// US port.
type USRoute struct {
	VendorID     string
	StateOrigin  string
	DistanceMi   float64
	PricePerMile float64
	BaseFee      float64
	Active       bool
}

// BodyTypeModifier adds flat surcharges to inland and ocean costs per
// vehicle body style. Zero values mean no adjustment.
type BodyTypeModifier struct {
	VendorID      string
	BodyType      BodyType
	USModifier    float64
	OceanModifier float64
	Active        bool
}

// CustomsRate is the duty and VAT schedule for a destination country.
type CustomsRate struct {
	Country      string
	DutyRate     float64
	VATRate      float64
	ClearanceFee float64
	BrokerFee    float64
	Active       bool
}

// PricingRule is a flat vendor fee or surcharge. RuleType is one of the
// reserved constants above or a free-form name for additional fees.
type PricingRule struct {
	VendorID  string
	RuleType  string
	RuleName  string
	Value     float64
	SortOrder int
	Active    bool
}
