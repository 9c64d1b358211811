package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Category codes are ENGINE-CONSTANTS.
// Do NOT rename or repurpose once referenced by invoices.
const (
	CategoryStandard      = "STANDARD"
	CategoryBooks         = "BOOKS"
	CategoryFoodEssential = "FOOD_ESSENTIAL"
	CategoryPharma        = "PHARMACEUTICALS"
	CategoryHotel         = "HOTEL_ACCOMMODATION"
	CategoryTransport     = "PASSENGER_TRANSPORT"
)

// RateType distinguishes the EU rate classes a country may apply to a
// category.
type RateType string

const (
	RateTypeStandard     RateType = "STANDARD"
	RateTypeReduced      RateType = "REDUCED"
	RateTypeSuperReduced RateType = "SUPER_REDUCED"
	RateTypeZero         RateType = "ZERO"
)

func (t RateType) Valid() bool {
	switch t {
	case RateTypeStandard, RateTypeReduced, RateTypeSuperReduced, RateTypeZero:
		return true
	default:
		return false
	}
}

// Category is immutable reference data. AnnexIIICategory carries the EU
// Annex III item number when the category is eligible for reduced rates.
type Category struct {
	Code             string    `json:"code" gorm:"type:text;primaryKey;column:code"`
	Name             string    `json:"name" gorm:"type:text;not null"`
	AnnexIIICategory *int16    `json:"annex_iii_category,omitempty" gorm:"column:annex_iii_category;type:smallint"`
	CreatedAt        time.Time `json:"created_at,omitempty" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Category) TableName() string { return "vat_categories" }

// CountryRate is one append-only row of the country x category rate
// table. Rate changes are recorded as new rows with a later
// effective_from; old rows stay put so historical invoices recalculate
// with the rate that was in force on their date.
type CountryRate struct {
	ID            snowflake.ID    `json:"id" gorm:"primaryKey"`
	CountryCode   string          `json:"country_code" gorm:"type:char(2);not null;uniqueIndex:uq_country_category_effective"`
	CategoryCode  string          `json:"category_code" gorm:"type:text;not null;uniqueIndex:uq_country_category_effective"`
	RateType      RateType        `json:"rate_type" gorm:"column:rate_type;type:text;not null"`
	Rate          decimal.Decimal `json:"rate" gorm:"type:numeric(6,3);not null"`
	EffectiveFrom time.Time       `json:"effective_from" gorm:"column:effective_from;type:date;not null;uniqueIndex:uq_country_category_effective"`
	CreatedAt     time.Time       `json:"created_at,omitempty" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CountryRate) TableName() string { return "country_vat_rates" }

func (r *CountryRate) Validate() error {
	if len(strings.TrimSpace(r.CountryCode)) != 2 {
		return ErrInvalidCountry
	}
	if strings.TrimSpace(r.CategoryCode) == "" {
		return ErrInvalidCategory
	}
	if !r.RateType.Valid() {
		return ErrInvalidRateType
	}
	if r.Rate.IsNegative() || r.Rate.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidRate
	}
	if r.EffectiveFrom.IsZero() {
		return ErrInvalidEffectiveFrom
	}
	return nil
}

// SupplierProfile is the supplier side of a calculation call. It is not
// persisted by this subsystem.
type SupplierProfile struct {
	Country         string
	IsVATRegistered bool
}

// CustomerProfile is the customer side of a calculation call.
type CustomerProfile struct {
	Country            string
	VATNumber          *string
	VATNumberValidated bool
	IsBusiness         bool
}

// LineItem is one invoice line tagged with a VAT category.
type LineItem struct {
	Description  string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	CategoryCode string
}

func (li LineItem) Validate() error {
	if li.UnitPrice.IsNegative() {
		return ErrNegativeUnitPrice
	}
	if li.Quantity.IsNegative() {
		return ErrInvalidQuantity
	}
	if strings.TrimSpace(li.CategoryCode) == "" {
		return ErrInvalidCategory
	}
	return nil
}

// RuleKind is the closed set of VAT treatments the determiner can pick.
type RuleKind string

const (
	RuleDomestic      RuleKind = "domestic"
	RuleReverseCharge RuleKind = "intra_eu_b2b_reverse_charge"
	RuleIntraEUB2C    RuleKind = "intra_eu_b2c"
	RuleExport        RuleKind = "export"
	RuleNonTaxable    RuleKind = "non_taxable"
)

// Rule is the determined VAT treatment for one supplier/customer pair.
// RateCountry names whose rate table applies; for zero-charged kinds it
// is kept for traceability even though every resolved rate is forced
// to zero.
type Rule struct {
	Kind          RuleKind `json:"kind"`
	RateCountry   string   `json:"rate_country"`
	ChargeVAT     bool     `json:"charge_vat"`
	ReverseCharge bool     `json:"reverse_charge"`
	// ManualReview marks fallback determinations (EEA-but-not-EU or
	// unknown country data) that were resolved as domestic treatment.
	ManualReview bool `json:"manual_review"`
}

// LineCalculation is the computed tax for one line item.
type LineCalculation struct {
	Description  string          `json:"description"`
	CategoryCode string          `json:"category_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Net          decimal.Decimal `json:"net"`
	Rate         decimal.Decimal `json:"rate"`
	VATAmount    decimal.Decimal `json:"vat_amount"`
}

// Calculation is the invoice-level result. VATTotal is the sum of the
// already-rounded per-line amounts, never a recomputation from the
// subtotal, so printed lines always add up.
type Calculation struct {
	Lines      []LineCalculation `json:"lines"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	VATTotal   decimal.Decimal   `json:"vat_total"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
	AsOfDate   time.Time         `json:"as_of_date"`
}

// Validation is the prerequisite check outcome. Errors block the
// calculation; warnings are surfaced but do not.
type Validation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
