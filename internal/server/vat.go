package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	vatdomain "github.com/smallbiznis/clearbill/internal/vat/domain"
)

type supplierPayload struct {
	Country         string `json:"country" binding:"required"`
	IsVATRegistered bool   `json:"isVatRegistered"`
}

type customerPayload struct {
	Country            string  `json:"country" binding:"required"`
	VATNumber          *string `json:"vatNumber"`
	VATNumberValidated bool    `json:"vatNumberValidated"`
	IsBusiness         bool    `json:"isBusiness"`
}

type lineItemPayload struct {
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	VATCategoryCode string          `json:"vatCategoryCode"`
}

type calculateInvoiceRequest struct {
	Supplier    supplierPayload   `json:"supplier" binding:"required"`
	Customer    customerPayload   `json:"customer" binding:"required"`
	LineItems   []lineItemPayload `json:"lineItems"`
	InvoiceDate *string           `json:"invoiceDate"`
}

type vatRulePayload struct {
	Kind          string `json:"kind"`
	RateCountry   string `json:"rateCountry"`
	ChargeVAT     bool   `json:"chargeVat"`
	ReverseCharge bool   `json:"reverseCharge"`
	ManualReview  bool   `json:"manualReview"`
}

type calculationLinePayload struct {
	Description     string          `json:"description"`
	VATCategoryCode string          `json:"vatCategoryCode"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Net             decimal.Decimal `json:"net"`
	Rate            decimal.Decimal `json:"rate"`
	VATAmount       decimal.Decimal `json:"vatAmount"`
}

type calculationPayload struct {
	Lines      []calculationLinePayload `json:"lines"`
	Subtotal   decimal.Decimal          `json:"subtotal"`
	VATTotal   decimal.Decimal          `json:"vatTotal"`
	GrandTotal decimal.Decimal          `json:"grandTotal"`
	AsOfDate   string                   `json:"asOfDate"`
}

type validationPayload struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// CalculateInvoice handles POST /vat/calculate: determine the rule,
// check prerequisites and price the invoice in one call.
func (s *Server) CalculateInvoice(c *gin.Context) {
	var req calculateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_request", err.Error()))
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.vatSvc.Calculate(c.Request.Context(), domainReq)
	if err != nil {
		if errors.Is(err, vatdomain.ErrPrerequisites) && result != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success":  false,
				"error":    "Invoice validation failed",
				"errors":   result.Validation.Errors,
				"warnings": result.Validation.Warnings,
			})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"vatRule":     toRulePayload(result.Rule),
			"calculation": toCalculationPayload(result.Calculation),
			"validation":  toValidationPayload(result.Validation),
		},
	})
}

// PreviewRule handles POST /vat/preview-rule: rule determination plus
// prerequisite validation, without any line math. Line items are
// optional; the portal calls this while the invoice form is still
// being filled.
func (s *Server) PreviewRule(c *gin.Context) {
	var req calculateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_request", err.Error()))
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rule, err := s.vatSvc.DetermineRule(c.Request.Context(), domainReq.Supplier, domainReq.Customer)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	validation, err := s.vatSvc.Validate(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"vatRule":    toRulePayload(*rule),
			"validation": toValidationPayload(*validation),
		},
	})
}

func (p supplierPayload) toDomain() vatdomain.SupplierProfile {
	return vatdomain.SupplierProfile{
		Country:         strings.TrimSpace(p.Country),
		IsVATRegistered: p.IsVATRegistered,
	}
}

func (p customerPayload) toDomain() vatdomain.CustomerProfile {
	return vatdomain.CustomerProfile{
		Country:            strings.TrimSpace(p.Country),
		VATNumber:          p.VATNumber,
		VATNumberValidated: p.VATNumberValidated,
		IsBusiness:         p.IsBusiness,
	}
}

func (r calculateInvoiceRequest) toDomain() (vatdomain.CalculateRequest, error) {
	req := vatdomain.CalculateRequest{
		Supplier: r.Supplier.toDomain(),
		Customer: r.Customer.toDomain(),
	}

	for _, line := range r.LineItems {
		req.LineItems = append(req.LineItems, vatdomain.LineItem{
			Description:  strings.TrimSpace(line.Description),
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			CategoryCode: strings.TrimSpace(line.VATCategoryCode),
		})
	}

	if r.InvoiceDate != nil && strings.TrimSpace(*r.InvoiceDate) != "" {
		raw := strings.TrimSpace(*r.InvoiceDate)
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, raw)
			if err != nil {
				return req, newValidationError("invoiceDate", "invalid_date", "invoiceDate must be an ISO date")
			}
		}
		req.InvoiceDate = &parsed
	}
	return req, nil
}

func toRulePayload(rule vatdomain.Rule) vatRulePayload {
	return vatRulePayload{
		Kind:          string(rule.Kind),
		RateCountry:   rule.RateCountry,
		ChargeVAT:     rule.ChargeVAT,
		ReverseCharge: rule.ReverseCharge,
		ManualReview:  rule.ManualReview,
	}
}

func toCalculationPayload(calc vatdomain.Calculation) calculationPayload {
	lines := make([]calculationLinePayload, 0, len(calc.Lines))
	for _, line := range calc.Lines {
		lines = append(lines, calculationLinePayload{
			Description:     line.Description,
			VATCategoryCode: line.CategoryCode,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			Net:             line.Net,
			Rate:            line.Rate,
			VATAmount:       line.VATAmount,
		})
	}
	return calculationPayload{
		Lines:      lines,
		Subtotal:   calc.Subtotal,
		VATTotal:   calc.VATTotal,
		GrandTotal: calc.GrandTotal,
		AsOfDate:   calc.AsOfDate.Format("2006-01-02"),
	}
}

func toValidationPayload(v vatdomain.Validation) validationPayload {
	return validationPayload{
		Valid:    v.Valid,
		Errors:   v.Errors,
		Warnings: v.Warnings,
	}
}
