package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// CalculateRequest carries everything needed to determine the VAT rule
// and price an invoice. InvoiceDate selects the rate window; nil means
// today.
type CalculateRequest struct {
	Supplier    SupplierProfile
	Customer    CustomerProfile
	LineItems   []LineItem
	InvoiceDate *time.Time
}

// CalculateResult bundles the determined rule, the priced invoice and
// the prerequisite check outcome.
type CalculateResult struct {
	Rule        Rule
	Calculation Calculation
	Validation  Validation
}

// Service is the VAT engine surface: rule determination, prerequisite
// validation and invoice calculation, plus the append-only rate
// administration operations.
type Service interface {
	// DetermineRule resolves the VAT treatment for a supplier/customer
	// pair without touching line items or rates.
	DetermineRule(ctx context.Context, supplier SupplierProfile, customer CustomerProfile) (*Rule, error)

	// Validate runs the invoice prerequisite checks and reports
	// blocking errors and non-blocking warnings.
	Validate(ctx context.Context, req CalculateRequest) (*Validation, error)

	// Calculate validates, determines the rule and prices the invoice.
	// A failed validation returns the Validation alongside
	// ErrPrerequisites; no calculation is produced.
	Calculate(ctx context.Context, req CalculateRequest) (*CalculateResult, error)

	ListCategories(ctx context.Context) ([]Category, error)
	ListRates(ctx context.Context, f RateFilter) ([]CountryRate, error)
	GetRate(ctx context.Context, id snowflake.ID) (*CountryRate, error)
	CreateRate(ctx context.Context, rate *CountryRate) (*CountryRate, error)
}
