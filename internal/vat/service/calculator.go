package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbiznis/clearbill/internal/vat/domain"
)

var oneHundred = decimal.NewFromInt(100)

// rateResolver resolves the effective percentage rate for a
// (country, category) pair on the calculation date.
type rateResolver func(country, category string) (decimal.Decimal, error)

// calculateInvoice prices the line items under the determined rule.
// All arithmetic is decimal; rounding to 2 places happens once per
// line, half-up, and the invoice VAT total is the sum of the rounded
// per-line amounts so printed lines always add up to the total.
//
// Semantic validation has already run. This function rejects only
// structurally invalid input: an empty line list or a negative price.
func calculateInvoice(lines []domain.LineItem, rule domain.Rule, asOf time.Time, resolve rateResolver) (*domain.Calculation, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyLineItems
	}

	calc := &domain.Calculation{
		Lines:    make([]domain.LineCalculation, 0, len(lines)),
		AsOfDate: asOf,
	}
	subtotal := decimal.Zero
	vatTotal := decimal.Zero

	for _, line := range lines {
		if line.UnitPrice.IsNegative() {
			return nil, domain.ErrNegativeUnitPrice
		}
		if line.Quantity.IsNegative() {
			return nil, domain.ErrInvalidQuantity
		}

		// Net stays exact: rounding only ever applies to the VAT
		// amount, so fractional quantities do not shift the base the
		// rate is applied to.
		net := line.Quantity.Mul(line.UnitPrice)

		var rate decimal.Decimal
		if rule.ChargeVAT {
			resolved, err := resolve(rule.RateCountry, line.CategoryCode)
			if err != nil {
				return nil, err
			}
			rate = resolved
		}
		// Non-taxable and export supplies carry a forced zero rate
		// regardless of what the rate table says.

		vat := net.Mul(rate).Div(oneHundred).Round(2)

		calc.Lines = append(calc.Lines, domain.LineCalculation{
			Description:  line.Description,
			CategoryCode: line.CategoryCode,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			Net:          net,
			Rate:         rate,
			VATAmount:    vat,
		})
		subtotal = subtotal.Add(net)
		vatTotal = vatTotal.Add(vat)
	}

	calc.Subtotal = subtotal
	calc.VATTotal = vatTotal
	calc.GrandTotal = subtotal.Add(vatTotal)
	return calc, nil
}
