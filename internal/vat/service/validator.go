package service

import (
	"fmt"
	"strings"
	"time"

	refdomain "github.com/smallbiznis/clearbill/internal/reference/domain"
	"github.com/smallbiznis/clearbill/internal/vat/domain"
	"github.com/smallbiznis/clearbill/internal/vat/ruleset"
)

// rateChecker reports whether a rate row exists for the pair on the
// given date without resolving the rate value.
type rateChecker interface {
	Has(country, category string, asOf time.Time) bool
}

// categoryChecker reports whether a code names a known VAT category.
type categoryChecker interface {
	HasCategory(code string) bool
}

// validatePrerequisites runs every check and collects the findings,
// never stopping at the first problem, so the caller sees the complete
// list at once. Errors block the calculation; warnings do not.
//
// requireLineItems distinguishes a full calculation, where an empty
// invoice is an error, from a preview run while the invoice form is
// still being filled.
func validatePrerequisites(
	rule domain.Rule,
	req domain.CalculateRequest,
	countries *refdomain.CountrySet,
	categories categoryChecker,
	rates rateChecker,
	asOf time.Time,
	requireLineItems bool,
) domain.Validation {
	v := domain.Validation{Errors: []string{}, Warnings: []string{}}

	if requireLineItems && len(req.LineItems) == 0 {
		v.Errors = append(v.Errors, "invoice must contain at least one line item")
	}

	for i, line := range req.LineItems {
		if line.UnitPrice.IsNegative() {
			v.Errors = append(v.Errors, fmt.Sprintf("line %d (%s): unit price must not be negative", i+1, line.Description))
		}
		if line.Quantity.IsNegative() {
			v.Errors = append(v.Errors, fmt.Sprintf("line %d (%s): quantity must not be negative", i+1, line.Description))
		}
		code := strings.ToUpper(strings.TrimSpace(line.CategoryCode))
		if code == "" {
			v.Errors = append(v.Errors, fmt.Sprintf("line %d (%s): missing VAT category code", i+1, line.Description))
		} else if !categories.HasCategory(code) {
			v.Errors = append(v.Errors, fmt.Sprintf("line %d (%s): unknown VAT category %q", i+1, line.Description, line.CategoryCode))
		}
	}

	switch rule.Kind {
	case domain.RuleReverseCharge:
		// An un-validated reverse-charge invoice is not legally
		// defensible: both checks are hard errors, never warnings.
		number := ""
		if req.Customer.VATNumber != nil {
			number = strings.TrimSpace(*req.Customer.VATNumber)
		}
		switch {
		case number == "":
			v.Errors = append(v.Errors, "reverse charge requires a customer VAT number")
		case !req.Customer.VATNumberValidated:
			v.Errors = append(v.Errors, "customer VAT number has not been validated; reverse charge cannot be applied")
		default:
			if !ruleset.VATNumberFormatOK(req.Customer.Country, number) {
				v.Warnings = append(v.Warnings, fmt.Sprintf("customer VAT number %q does not match the expected format for %s", number, strings.ToUpper(req.Customer.Country)))
			}
		}

	case domain.RuleIntraEUB2C:
		if !countries.IsEUMember(req.Customer.Country) {
			v.Errors = append(v.Errors, fmt.Sprintf("customer country %q is not a known EU member state", req.Customer.Country))
		}

	case domain.RuleDomestic:
		if rule.ChargeVAT && !req.Supplier.IsVATRegistered {
			v.Errors = append(v.Errors, "supplier is not VAT-registered but the determined rule charges VAT")
		}
	}

	if rule.Kind != domain.RuleReverseCharge &&
		req.Customer.VATNumber != nil &&
		strings.TrimSpace(*req.Customer.VATNumber) != "" &&
		!req.Customer.VATNumberValidated {
		v.Warnings = append(v.Warnings, "customer VAT number provided but not validated")
	}

	if rule.ManualReview {
		v.Warnings = append(v.Warnings, "country combination could not be classified; domestic treatment applied pending manual review")
	}

	if rule.ChargeVAT {
		seen := map[string]struct{}{}
		for _, line := range req.LineItems {
			code := strings.ToUpper(strings.TrimSpace(line.CategoryCode))
			if code == "" || !categories.HasCategory(code) {
				continue
			}
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			if !rates.Has(rule.RateCountry, code, asOf) {
				v.Errors = append(v.Errors, fmt.Sprintf("no VAT rate found for country %s, category %s on %s", rule.RateCountry, code, asOf.Format("2006-01-02")))
			}
		}
	}

	v.Valid = len(v.Errors) == 0
	return v
}
