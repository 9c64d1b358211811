// Package ruleset holds the pure place-of-supply logic: given a
// supplier, a customer and the country reference data, pick the VAT
// treatment. No I/O, no clock, fully deterministic.
package ruleset

import (
	"strings"

	refdomain "github.com/smallbiznis/clearbill/internal/reference/domain"
	"github.com/smallbiznis/clearbill/internal/vat/domain"
)

// DetermineRule resolves the VAT treatment for a goods/services supply.
//
// Order of evaluation matters: the domestic check runs before any EU
// membership logic so that a DE->DE sale is domestic even when both
// sides are EU businesses.
func DetermineRule(supplier domain.SupplierProfile, customer domain.CustomerProfile, countries *refdomain.CountrySet) domain.Rule {
	supplierCountry := normalizeCountry(supplier.Country)
	customerCountry := normalizeCountry(customer.Country)

	if !supplier.IsVATRegistered {
		return domain.Rule{
			Kind:        domain.RuleNonTaxable,
			RateCountry: supplierCountry,
		}
	}

	if supplierCountry == customerCountry {
		return domain.Rule{
			Kind:        domain.RuleDomestic,
			RateCountry: supplierCountry,
			ChargeVAT:   true,
		}
	}

	supplierEU := countries.IsEUMember(supplierCountry)
	customerEU := countries.IsEUMember(customerCountry)

	if supplierEU && customerEU {
		// B2B cross-border is always a reverse-charge candidate.
		// Whether the customer's VAT number is present and validated
		// is the validator's call, and a failure there is a hard
		// stop, never a silent fallback to B2C treatment.
		if customer.IsBusiness {
			return domain.Rule{
				Kind:          domain.RuleReverseCharge,
				RateCountry:   customerCountry,
				ReverseCharge: true,
			}
		}
		// Cross-border B2C inside the EU: destination-country VAT
		// under the OSS regime.
		return domain.Rule{
			Kind:        domain.RuleIntraEUB2C,
			RateCountry: customerCountry,
			ChargeVAT:   true,
		}
	}

	// An export hinges on the destination alone: a known country that
	// is neither EU nor EEA is zero-rated no matter where the supplier
	// sits.
	if countries.Known(customerCountry) && !customerEU && !countries.IsEEAMember(customerCountry) {
		return domain.Rule{
			Kind:        domain.RuleExport,
			RateCountry: supplierCountry,
		}
	}

	// Everything left over: EEA-but-not-EU destinations, countries
	// missing from the reference table, and non-EU suppliers selling
	// into the EU. Priced as a domestic supply on the supplier's rates
	// and flagged for a human to confirm the treatment.
	return domain.Rule{
		Kind:         domain.RuleDomestic,
		RateCountry:  supplierCountry,
		ChargeVAT:    true,
		ManualReview: true,
	}
}

func normalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
