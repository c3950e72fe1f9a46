package domain

import "time"

// BodyType enumerates the vehicle body styles supported by the calculator.
type BodyType string

const (
	BodyTypeSedan      BodyType = "sedan"
	BodyTypeSUV        BodyType = "suv"
	BodyTypeTruck      BodyType = "truck"
	BodyTypeVan        BodyType = "van"
	BodyTypeCoupe      BodyType = "coupe"
	BodyTypeWagon      BodyType = "wagon"
	BodyTypeMotorcycle BodyType = "motorcycle"
)

// Valid reports whether the body type is one of the supported values.
func (b BodyType) Valid() bool {
	switch b {
	case BodyTypeSedan, BodyTypeSUV, BodyTypeTruck, BodyTypeVan, BodyTypeCoupe, BodyTypeWagon, BodyTypeMotorcycle:
		return true
	}
	return false
}

// CalculatorInput captures everything needed to price a vehicle import.
// Values are immutable once handed to the engine; amounts are USD.
type CalculatorInput struct {
	CarPrice        float64  `json:"carPrice"`
	AuctionID       string   `json:"auctionId"`
	StateOrigin     string   `json:"stateOrigin"`
	PortDestination string   `json:"portDestination"`
	BodyType        BodyType `json:"bodyType"`
	Year            int      `json:"year"`
	IsRunning       bool     `json:"isRunning"`
	HasDamage       bool     `json:"hasDamage,omitempty"`
	DamageType      string   `json:"damageType,omitempty"`
	VendorID        string   `json:"vendorId"`
	CalculateTax    bool     `json:"calculateTax,omitempty"`
}

// FeeBreakdown is the common shape every pipeline stage produces. Formula is
// display-only text documenting how Amount was derived; it never feeds back
// into the computation.
type FeeBreakdown struct {
	Amount      float64 `json:"amount"`
	Formula     string  `json:"formula,omitempty"`
	Description string  `json:"description"`
}

// FeeLine is a named surcharge or additional fee contributing to a stage total.
type FeeLine struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// AuctionFee is the auction stage output: buyer fee plus gate fee.
type AuctionFee struct {
	FeeBreakdown
	GateFee float64 `json:"gateFee"`
}

// USShipping is the inland transport stage output.
type USShipping struct {
	FeeBreakdown
	Distance     float64   `json:"distance"`
	PricePerMile float64   `json:"pricePerMile"`
	BaseFee      float64   `json:"baseFee"`
	Modifiers    []FeeLine `json:"modifiers"`
}

// OceanShipping is the ocean freight stage output. ContainerType and
// EstimatedDays are informational only.
type OceanShipping struct {
	FeeBreakdown
	ContainerType string  `json:"containerType"`
	EstimatedDays int     `json:"estimatedDays"`
	PortFee       float64 `json:"portFee"`
}

// CustomsClearance is the customs stage output.
type CustomsClearance struct {
	FeeBreakdown
	DutyRate     float64 `json:"dutyRate"`
	DutyAmount   float64 `json:"dutyAmount"`
	ClearanceFee float64 `json:"customsFee"`
	BrokerFee    float64 `json:"brokerFee"`
}

// VendorFees is the vendor markup stage output.
type VendorFees struct {
	FeeBreakdown
	ServiceFee       float64   `json:"serviceFee"`
	DocumentationFee float64   `json:"documentationFee"`
	AdditionalFees   []FeeLine `json:"additionalFees"`
}

// TaxCalculation is the optional VAT stage output.
type TaxCalculation struct {
	FeeBreakdown
	Rate          float64 `json:"rate"`
	TaxableAmount float64 `json:"taxableAmount"`
}

// CalculationBreakdown groups the per-stage results of one calculation.
// Tax is nil when the input did not request it.
type CalculationBreakdown struct {
	AuctionFee       AuctionFee       `json:"auctionFee"`
	USShipping       USShipping       `json:"usaShipping"`
	OceanShipping    OceanShipping    `json:"oceanShipping"`
	CustomsClearance CustomsClearance `json:"customsClearance"`
	VendorFees       VendorFees       `json:"vendorFees"`
	Tax              *TaxCalculation  `json:"tax,omitempty"`
}

// CalculationResult is the immutable point-in-time snapshot produced by one
// pipeline run. Rates may change afterwards; results are never recomputed.
type CalculationResult struct {
	ID           string               `json:"id"`
	Breakdown    CalculationBreakdown `json:"breakdown"`
	Total        float64              `json:"total"`
	Currency     string               `json:"currency"`
	CalculatedAt time.Time            `json:"calculatedAt"`
	ValidUntil   time.Time            `json:"validUntil"`
	VendorID     string               `json:"vendorId"`
	Input        CalculatorInput      `json:"inputData"`
}

// CalculationSummary is the compact listing shape for saved calculations.
type CalculationSummary struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	VendorID  string    `json:"vendorId"`
	Total     float64   `json:"totalAmount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
}
