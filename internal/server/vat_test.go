package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbiznis/clearbill/internal/config"
	refdomain "github.com/smallbiznis/clearbill/internal/reference/domain"
	vatdomain "github.com/smallbiznis/clearbill/internal/vat/domain"
)

func TestMain(m *testing.M) {
	// Mirrors the process-wide setting from cmd/clearbill.
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

type fakeVATService struct {
	result     *vatdomain.CalculateResult
	calcErr    error
	rule       *vatdomain.Rule
	validation *vatdomain.Validation
	created    *vatdomain.CountryRate
	createErr  error
	categories []vatdomain.Category
	rates      []vatdomain.CountryRate

	lastRequest vatdomain.CalculateRequest
}

func (f *fakeVATService) DetermineRule(ctx context.Context, supplier vatdomain.SupplierProfile, customer vatdomain.CustomerProfile) (*vatdomain.Rule, error) {
	if f.rule == nil {
		return nil, vatdomain.ErrInvalidCountry
	}
	return f.rule, nil
}

func (f *fakeVATService) Validate(ctx context.Context, req vatdomain.CalculateRequest) (*vatdomain.Validation, error) {
	if f.validation != nil {
		return f.validation, nil
	}
	if f.result != nil {
		v := f.result.Validation
		return &v, nil
	}
	return &vatdomain.Validation{Valid: true, Errors: []string{}, Warnings: []string{}}, nil
}

func (f *fakeVATService) Calculate(ctx context.Context, req vatdomain.CalculateRequest) (*vatdomain.CalculateResult, error) {
	f.lastRequest = req
	return f.result, f.calcErr
}

func (f *fakeVATService) ListCategories(ctx context.Context) ([]vatdomain.Category, error) {
	return f.categories, nil
}

func (f *fakeVATService) ListRates(ctx context.Context, filter vatdomain.RateFilter) ([]vatdomain.CountryRate, error) {
	return f.rates, nil
}

func (f *fakeVATService) GetRate(ctx context.Context, id snowflake.ID) (*vatdomain.CountryRate, error) {
	if f.created == nil {
		return nil, vatdomain.ErrNotFound
	}
	return f.created, nil
}

func (f *fakeVATService) CreateRate(ctx context.Context, rate *vatdomain.CountryRate) (*vatdomain.CountryRate, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

type fakeReferenceRepo struct {
	countries []refdomain.Country
}

func (f *fakeReferenceRepo) ListCountries(ctx context.Context) ([]refdomain.Country, error) {
	return f.countries, nil
}

func (f *fakeReferenceRepo) ListCurrencies(ctx context.Context) ([]refdomain.Currency, error) {
	return nil, nil
}

func newTestServer(t *testing.T, svc vatdomain.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	s := NewServer(ServerParams{
		Gin:     engine,
		Cfg:     config.Config{},
		GenID:   node,
		VATSvc:  svc,
		Refrepo: &fakeReferenceRepo{countries: []refdomain.Country{{Code: "DE", Name: "Germany", IsEUMember: true}}},
	})
	registerRoutes(s)
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

const calculateBody = `{
	"supplier": {"country": "DE", "isVatRegistered": true},
	"customer": {"country": "FR", "vatNumber": "FR12345678901", "vatNumberValidated": true, "isBusiness": true},
	"lineItems": [{"description": "consulting", "quantity": 2, "unitPrice": 100.00, "vatCategoryCode": "STANDARD"}]
}`

func successResult() *vatdomain.CalculateResult {
	return &vatdomain.CalculateResult{
		Rule: vatdomain.Rule{Kind: vatdomain.RuleReverseCharge, RateCountry: "FR", ReverseCharge: true},
		Calculation: vatdomain.Calculation{
			Lines: []vatdomain.LineCalculation{
				{
					Description:  "consulting",
					CategoryCode: "STANDARD",
					Quantity:     decimal.NewFromInt(2),
					UnitPrice:    decimal.RequireFromString("100.00"),
					Net:          decimal.RequireFromString("200.00"),
					Rate:         decimal.Zero,
					VATAmount:    decimal.Zero,
				},
			},
			Subtotal:   decimal.RequireFromString("200.00"),
			VATTotal:   decimal.Zero,
			GrandTotal: decimal.RequireFromString("200.00"),
			AsOfDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		Validation: vatdomain.Validation{Valid: true, Errors: []string{}, Warnings: []string{}},
	}
}

func TestCalculateInvoiceSuccessEnvelope(t *testing.T) {
	svc := &fakeVATService{result: successResult()}
	engine := newTestServer(t, svc)

	w := postJSON(t, engine, "/vat/calculate", calculateBody)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			VATRule struct {
				Kind          string `json:"kind"`
				RateCountry   string `json:"rateCountry"`
				ReverseCharge bool   `json:"reverseCharge"`
			} `json:"vatRule"`
			Calculation struct {
				Subtotal   json.Number `json:"subtotal"`
				VATTotal   json.Number `json:"vatTotal"`
				GrandTotal json.Number `json:"grandTotal"`
				AsOfDate   string      `json:"asOfDate"`
			} `json:"calculation"`
			Validation struct {
				Valid    bool     `json:"valid"`
				Errors   []string `json:"errors"`
				Warnings []string `json:"warnings"`
			} `json:"validation"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "intra_eu_b2b_reverse_charge", resp.Data.VATRule.Kind)
	assert.Equal(t, "FR", resp.Data.VATRule.RateCountry)
	assert.True(t, resp.Data.VATRule.ReverseCharge)
	assert.Equal(t, "200", trimZeros(resp.Data.Calculation.Subtotal.String()))
	assert.Equal(t, "2025-03-01", resp.Data.Calculation.AsOfDate)
	assert.True(t, resp.Data.Validation.Valid)
	assert.Empty(t, resp.Data.Validation.Errors)

	// The handler passed the parsed profiles through unchanged.
	assert.Equal(t, "DE", svc.lastRequest.Supplier.Country)
	assert.Equal(t, "FR", svc.lastRequest.Customer.Country)
	require.Len(t, svc.lastRequest.LineItems, 1)
}

func TestCalculateInvoiceValidationFailureEnvelope(t *testing.T) {
	svc := &fakeVATService{
		result: &vatdomain.CalculateResult{
			Rule: vatdomain.Rule{Kind: vatdomain.RuleReverseCharge, RateCountry: "FR", ReverseCharge: true},
			Validation: vatdomain.Validation{
				Valid:    false,
				Errors:   []string{"customer VAT number has not been validated; reverse charge cannot be applied"},
				Warnings: []string{},
			},
		},
		calcErr: vatdomain.ErrPrerequisites,
	}
	engine := newTestServer(t, svc)

	w := postJSON(t, engine, "/vat/calculate", calculateBody)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success  bool     `json:"success"`
		Error    string   `json:"error"`
		Errors   []string `json:"errors"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.False(t, resp.Success)
	assert.Equal(t, "Invoice validation failed", resp.Error)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "VAT number")
}

func TestCalculateInvoiceMalformedBody(t *testing.T) {
	engine := newTestServer(t, &fakeVATService{result: successResult()})

	w := postJSON(t, engine, "/vat/calculate", `{"supplier": {`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	require.NotEmpty(t, resp.Error.Errors)
	assert.Equal(t, "body", resp.Error.Errors[0].Field)
}

func TestCalculateInvoiceBadInvoiceDate(t *testing.T) {
	engine := newTestServer(t, &fakeVATService{result: successResult()})

	body := `{
		"supplier": {"country": "DE", "isVatRegistered": true},
		"customer": {"country": "FR", "isBusiness": true},
		"lineItems": [{"description": "x", "quantity": 1, "unitPrice": 1, "vatCategoryCode": "STANDARD"}],
		"invoiceDate": "not-a-date"
	}`
	w := postJSON(t, engine, "/vat/calculate", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Error.Errors)
	assert.Equal(t, "invoiceDate", resp.Error.Errors[0].Field)
}

func TestCalculateInvoiceInternalErrorIsGeneric(t *testing.T) {
	svc := &fakeVATService{calcErr: assert.AnError}
	engine := newTestServer(t, svc)

	w := postJSON(t, engine, "/vat/calculate", calculateBody)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "internal_error", resp.Error.Type)
	assert.Equal(t, "internal server error", resp.Error.Message)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestPreviewRule(t *testing.T) {
	svc := &fakeVATService{rule: &vatdomain.Rule{Kind: vatdomain.RuleIntraEUB2C, RateCountry: "FR", ChargeVAT: true}}
	engine := newTestServer(t, svc)

	w := postJSON(t, engine, "/vat/preview-rule", `{
		"supplier": {"country": "DE", "isVatRegistered": true},
		"customer": {"country": "FR", "isBusiness": false}
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			VATRule struct {
				Kind      string `json:"kind"`
				ChargeVAT bool   `json:"chargeVat"`
			} `json:"vatRule"`
			Validation struct {
				Valid    bool     `json:"valid"`
				Errors   []string `json:"errors"`
				Warnings []string `json:"warnings"`
			} `json:"validation"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "intra_eu_b2c", resp.Data.VATRule.Kind)
	assert.True(t, resp.Data.VATRule.ChargeVAT)
	assert.True(t, resp.Data.Validation.Valid)
	assert.Empty(t, resp.Data.Validation.Errors)
}

func TestPreviewRuleReportsValidationFindings(t *testing.T) {
	svc := &fakeVATService{
		rule: &vatdomain.Rule{Kind: vatdomain.RuleReverseCharge, RateCountry: "FR", ReverseCharge: true},
		validation: &vatdomain.Validation{
			Valid:  false,
			Errors: []string{"reverse charge requires a customer VAT number"},
		},
	}
	engine := newTestServer(t, svc)

	// No line items yet: the portal previews while the form is being
	// filled, so the response is still 200 with the findings inline.
	w := postJSON(t, engine, "/vat/preview-rule", `{
		"supplier": {"country": "DE", "isVatRegistered": true},
		"customer": {"country": "FR", "isBusiness": true}
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Validation struct {
				Valid  bool     `json:"valid"`
				Errors []string `json:"errors"`
			} `json:"validation"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.Data.Validation.Valid)
	assert.Contains(t, resp.Data.Validation.Errors[0], "customer VAT number")
}

func TestCreateVATRate(t *testing.T) {
	created := &vatdomain.CountryRate{
		ID:            snowflake.ID(42),
		CountryCode:   "FR",
		CategoryCode:  "BOOKS",
		RateType:      vatdomain.RateTypeReduced,
		Rate:          decimal.RequireFromString("5.5"),
		EffectiveFrom: time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	engine := newTestServer(t, &fakeVATService{created: created})

	w := postJSON(t, engine, "/admin/vat-rates", `{
		"country_code": "FR",
		"category_code": "BOOKS",
		"rate_type": "REDUCED",
		"rate": 5.5,
		"effective_from": "2013-01-01"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"FR"`)
}

func TestCreateVATRateDuplicateConflicts(t *testing.T) {
	engine := newTestServer(t, &fakeVATService{createErr: vatdomain.ErrRateExists})

	w := postJSON(t, engine, "/admin/vat-rates", `{
		"country_code": "FR",
		"category_code": "BOOKS",
		"rate_type": "REDUCED",
		"rate": 5.5,
		"effective_from": "2013-01-01"
	}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"conflict"`)
}

func TestCreateVATRateBadDate(t *testing.T) {
	engine := newTestServer(t, &fakeVATService{})

	w := postJSON(t, engine, "/admin/vat-rates", `{
		"country_code": "FR",
		"category_code": "BOOKS",
		"rate_type": "REDUCED",
		"rate": 5.5,
		"effective_from": "01/01/2013"
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCountries(t *testing.T) {
	engine := newTestServer(t, &fakeVATService{})

	req := httptest.NewRequest(http.MethodGet, "/api/countries", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"DE"`)
}

func trimZeros(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d.String()
}
