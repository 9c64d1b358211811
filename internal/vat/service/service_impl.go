package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/clearbill/internal/clock"
	"github.com/smallbiznis/clearbill/internal/observability/metrics"
	"github.com/smallbiznis/clearbill/internal/reference"
	"github.com/smallbiznis/clearbill/internal/vat/domain"
	"github.com/smallbiznis/clearbill/internal/vat/rates"
	"github.com/smallbiznis/clearbill/internal/vat/ruleset"
)

type serviceParams struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Rates     *rates.Store
	Reference *reference.Store
	Metrics   *metrics.Metrics
	Clock     clock.Clock
}

type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	rates     *rates.Store
	reference *reference.Store
	metrics   *metrics.Metrics
	clock     clock.Clock
}

func NewService(p serviceParams) domain.Service {
	return &Service{
		log:       p.Log.Named("vat.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		rates:     p.Rates,
		reference: p.Reference,
		metrics:   p.Metrics,
		clock:     p.Clock,
	}
}

func (s *Service) DetermineRule(ctx context.Context, supplier domain.SupplierProfile, customer domain.CustomerProfile) (*domain.Rule, error) {
	if strings.TrimSpace(supplier.Country) == "" || strings.TrimSpace(customer.Country) == "" {
		return nil, domain.ErrInvalidCountry
	}

	rule := ruleset.DetermineRule(supplier, customer, s.reference.Countries())
	return &rule, nil
}

func (s *Service) Validate(ctx context.Context, req domain.CalculateRequest) (*domain.Validation, error) {
	rule, err := s.DetermineRule(ctx, req.Supplier, req.Customer)
	if err != nil {
		return nil, err
	}

	// Preview validation: line items may still be absent while the
	// invoice form is being filled, so they are not required here.
	v := validatePrerequisites(*rule, req, s.reference.Countries(), s.rates, s.rates, s.asOf(req), false)
	return &v, nil
}

func (s *Service) Calculate(ctx context.Context, req domain.CalculateRequest) (*domain.CalculateResult, error) {
	rule, err := s.DetermineRule(ctx, req.Supplier, req.Customer)
	if err != nil {
		return nil, err
	}

	asOf := s.asOf(req)
	validation := validatePrerequisites(*rule, req, s.reference.Countries(), s.rates, s.rates, asOf, true)
	result := &domain.CalculateResult{Rule: *rule, Validation: validation}

	if !validation.Valid {
		s.metrics.RecordValidationFailure(ctx, string(rule.Kind))
		s.log.Info("invoice prerequisites not met",
			zap.String("rule_kind", string(rule.Kind)),
			zap.Strings("errors", validation.Errors),
		)
		return result, domain.ErrPrerequisites
	}

	calc, err := calculateInvoice(req.LineItems, *rule, asOf, func(country, category string) (decimal.Decimal, error) {
		return s.lookupRate(ctx, country, category, asOf)
	})
	if err != nil {
		return nil, err
	}

	result.Calculation = *calc
	s.metrics.RecordCalculation(ctx, string(rule.Kind))
	return result, nil
}

func (s *Service) lookupRate(ctx context.Context, country, category string, asOf time.Time) (decimal.Decimal, error) {
	rate, err := s.rates.Lookup(country, category, asOf)
	if err != nil {
		s.metrics.RecordRateLookupMiss(ctx, country)
		return rate, err
	}
	return rate, nil
}

func (s *Service) asOf(req domain.CalculateRequest) time.Time {
	if req.InvoiceDate != nil {
		return req.InvoiceDate.UTC()
	}
	return s.clock.Now()
}
