package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	vatdomain "github.com/smallbiznis/clearbill/internal/vat/domain"
)

type createVATRateRequest struct {
	CountryCode   string          `json:"country_code" binding:"required"`
	CategoryCode  string          `json:"category_code" binding:"required"`
	RateType      string          `json:"rate_type" binding:"required"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveFrom string          `json:"effective_from" binding:"required"`
}

func (s *Server) ListVATRates(c *gin.Context) {
	rates, err := s.vatSvc.ListRates(c.Request.Context(), vatdomain.RateFilter{
		CountryCode:  strings.TrimSpace(c.Query("country")),
		CategoryCode: strings.TrimSpace(c.Query("category")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rates})
}

func (s *Server) GetVATRate(c *gin.Context) {
	raw, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	rate, err := s.vatSvc.GetRate(c.Request.Context(), snowflake.ID(raw))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rate})
}

// CreateVATRate appends a rate row. There is no update or delete: rate
// changes are new rows with a later effective_from.
func (s *Server) CreateVATRate(c *gin.Context) {
	var req createVATRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_request", err.Error()))
		return
	}

	effectiveFrom, err := time.Parse("2006-01-02", strings.TrimSpace(req.EffectiveFrom))
	if err != nil {
		AbortWithError(c, newValidationError("effective_from", "invalid_effective_from", "effective_from must be an ISO date"))
		return
	}

	rate, err := s.vatSvc.CreateRate(c.Request.Context(), &vatdomain.CountryRate{
		CountryCode:   req.CountryCode,
		CategoryCode:  req.CategoryCode,
		RateType:      vatdomain.RateType(strings.ToUpper(strings.TrimSpace(req.RateType))),
		Rate:          req.Rate,
		EffectiveFrom: effectiveFrom,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": rate})
}
