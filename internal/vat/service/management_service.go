package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/smallbiznis/clearbill/internal/vat/domain"
)

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) ListRates(ctx context.Context, f domain.RateFilter) ([]domain.CountryRate, error) {
	return s.repo.ListRates(ctx, domain.RateFilter{
		CountryCode:  strings.TrimSpace(f.CountryCode),
		CategoryCode: strings.TrimSpace(f.CategoryCode),
	})
}

func (s *Service) GetRate(ctx context.Context, id snowflake.ID) (*domain.CountryRate, error) {
	if id == 0 {
		return nil, domain.ErrInvalidID
	}

	rate, err := s.repo.FindRateByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, domain.ErrNotFound
	}
	return rate, nil
}

// CreateRate appends a new rate row. Existing rows are never touched:
// a rate change is a new row with a later effective_from, and the
// in-memory snapshot is rebuilt so the new row takes effect
// immediately.
func (s *Service) CreateRate(ctx context.Context, rate *domain.CountryRate) (*domain.CountryRate, error) {
	record := &domain.CountryRate{
		ID:            s.genID.Generate(),
		CountryCode:   strings.ToUpper(strings.TrimSpace(rate.CountryCode)),
		CategoryCode:  strings.ToUpper(strings.TrimSpace(rate.CategoryCode)),
		RateType:      rate.RateType,
		Rate:          rate.Rate,
		EffectiveFrom: rate.EffectiveFrom,
		CreatedAt:     time.Now().UTC(),
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	cat, err := s.repo.FindCategory(ctx, record.CategoryCode)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrCategoryNotFound
	}
	if !s.reference.Countries().Known(record.CountryCode) {
		return nil, domain.ErrInvalidCountry
	}

	if err := s.repo.CreateRate(ctx, record); err != nil {
		return nil, err
	}

	if err := s.rates.Load(ctx); err != nil {
		// The row is persisted; the snapshot catches up on the next
		// successful reload.
		s.log.Error("rate snapshot reload failed after append", zap.Error(err))
	} else {
		s.metrics.RecordSnapshotReload(ctx)
	}

	s.log.Info("vat rate appended",
		zap.String("country", record.CountryCode),
		zap.String("category", record.CategoryCode),
		zap.String("rate", record.Rate.String()),
		zap.Time("effective_from", record.EffectiveFrom),
	)
	return record, nil
}
