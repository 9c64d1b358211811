package ruleset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	refdomain "github.com/smallbiznis/clearbill/internal/reference/domain"
	"github.com/smallbiznis/clearbill/internal/vat/domain"
)

func testCountries() *refdomain.CountrySet {
	return refdomain.NewCountrySet([]refdomain.Country{
		{Code: "DE", Name: "Germany", IsEUMember: true, IsEEAMember: true},
		{Code: "FR", Name: "France", IsEUMember: true, IsEEAMember: true},
		{Code: "BG", Name: "Bulgaria", IsEUMember: true, IsEEAMember: true},
		{Code: "NO", Name: "Norway", IsEUMember: false, IsEEAMember: true},
		{Code: "US", Name: "United States", IsEUMember: false, IsEEAMember: false},
		{Code: "GB", Name: "United Kingdom", IsEUMember: false, IsEEAMember: false},
	})
}

func strp(s string) *string { return &s }

func TestDetermineRule(t *testing.T) {
	countries := testCountries()

	cases := []struct {
		name     string
		supplier domain.SupplierProfile
		customer domain.CustomerProfile
		want     domain.Rule
	}{
		{
			name:     "unregistered supplier is non-taxable",
			supplier: domain.SupplierProfile{Country: "DE", IsVATRegistered: false},
			customer: domain.CustomerProfile{Country: "FR", IsBusiness: true},
			want:     domain.Rule{Kind: domain.RuleNonTaxable, RateCountry: "DE"},
		},
		{
			name:     "same country is domestic",
			supplier: domain.SupplierProfile{Country: "DE", IsVATRegistered: true},
			customer: domain.CustomerProfile{Country: "DE", IsBusiness: true, VATNumber: strp("DE123456789"), VATNumberValidated: true},
			want:     domain.Rule{Kind: domain.RuleDomestic, RateCountry: "DE", ChargeVAT: true},
		},
		{
			name:     "intra-eu b2b is reverse charge at customer country",
			supplier: domain.SupplierProfile{Country: "DE", IsVATRegistered: true},
			customer: domain.CustomerProfile{Country: "FR", IsBusiness: true, VATNumber: strp("FR12345678901"), VATNumberValidated: true},
			want:     domain.Rule{Kind: domain.RuleReverseCharge, RateCountry: "FR", ReverseCharge: true},
		},
		{
			name:     "b2b without validated number is still a reverse-charge candidate",
			supplier: domain.SupplierProfile{Country: "DE", IsVATRegistered: true},
			customer: domain.CustomerProfile{Country: "FR", IsBusiness: true},
			want:     domain.Rule{Kind: domain.RuleReverseCharge, RateCountry: "FR", ReverseCharge: true},
		},
		{
			name:     "intra-eu b2c uses destination country rate",
			supplier: domain.SupplierProfile{Country: "DE", IsVATRegistered: true},
			customer: domain.CustomerProfile{Country: "FR", IsBusiness: false},
			want:     domain.Rule{Kind: domain.RuleIntraEUB2C, RateCountry: "FR", ChargeVAT: true},
		},
		{
			name:     "non-eu customer is export",
			supplier: domain.SupplierProfile{Country: "DE", IsVATRegistered: true},
			customer: domain.CustomerProfile{Country: "US", IsBusiness: false},
			want:     domain.Rule{Kind: domain.RuleExport, RateCountry: "DE"},
		},
		{
			name:     "eea customer falls back to domestic with manual review",
			supplier: domain.SupplierProfile{Country: "DE", IsVATRegistered: true},
			customer: domain.CustomerProfile{Country: "NO", IsBusiness: true},
			want:     domain.Rule{Kind: domain.RuleDomestic, RateCountry: "DE", ChargeVAT: true, ManualReview: true},
		},
		{
			name:     "unknown customer country falls back to domestic with manual review",
			supplier: domain.SupplierProfile{Country: "DE", IsVATRegistered: true},
			customer: domain.CustomerProfile{Country: "ZZ", IsBusiness: false},
			want:     domain.Rule{Kind: domain.RuleDomestic, RateCountry: "DE", ChargeVAT: true, ManualReview: true},
		},
		{
			name:     "non-eu supplier to non-eu customer is export",
			supplier: domain.SupplierProfile{Country: "US", IsVATRegistered: true},
			customer: domain.CustomerProfile{Country: "GB", IsBusiness: true},
			want:     domain.Rule{Kind: domain.RuleExport, RateCountry: "US"},
		},
		{
			name:     "non-eu supplier into the eu falls back to domestic with manual review",
			supplier: domain.SupplierProfile{Country: "US", IsVATRegistered: true},
			customer: domain.CustomerProfile{Country: "DE", IsBusiness: false},
			want:     domain.Rule{Kind: domain.RuleDomestic, RateCountry: "US", ChargeVAT: true, ManualReview: true},
		},
		{
			name:     "non-eu supplier to eea customer falls back to domestic with manual review",
			supplier: domain.SupplierProfile{Country: "US", IsVATRegistered: true},
			customer: domain.CustomerProfile{Country: "NO", IsBusiness: true},
			want:     domain.Rule{Kind: domain.RuleDomestic, RateCountry: "US", ChargeVAT: true, ManualReview: true},
		},
		{
			name:     "lowercase codes are normalized",
			supplier: domain.SupplierProfile{Country: "de", IsVATRegistered: true},
			customer: domain.CustomerProfile{Country: " fr ", IsBusiness: false},
			want:     domain.Rule{Kind: domain.RuleIntraEUB2C, RateCountry: "FR", ChargeVAT: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetermineRule(tc.supplier, tc.customer, countries)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDetermineRuleIsDeterministic(t *testing.T) {
	countries := testCountries()
	supplier := domain.SupplierProfile{Country: "DE", IsVATRegistered: true}
	customer := domain.CustomerProfile{Country: "FR", IsBusiness: true, VATNumber: strp("FR12345678901"), VATNumberValidated: true}

	first := DetermineRule(supplier, customer, countries)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, DetermineRule(supplier, customer, countries))
	}
}
