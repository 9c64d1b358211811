// Package rates keeps the country x category VAT rate table as an
// immutable in-memory snapshot so lookups during invoice calculation
// never hit the database. The table is append-only and changes rarely;
// the snapshot is rebuilt whenever a rate is appended or the override
// file changes.
package rates

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smallbiznis/clearbill/internal/config"
	"github.com/smallbiznis/clearbill/internal/vat/domain"
)

type rateKey struct {
	Country  string
	Category string
}

type rateWindow struct {
	EffectiveFrom time.Time
	Rate          decimal.Decimal
}

// snapshot maps (country, category) to its rate history sorted by
// effective_from ascending, plus the known category codes. It is never
// mutated after construction.
type snapshot struct {
	windows    map[rateKey][]rateWindow
	categories map[string]struct{}
}

// Store serves rate lookups from the current snapshot.
type Store struct {
	log       *zap.Logger
	repo      domain.Repository
	overrides *config.RateOverridesHolder

	current atomic.Pointer[snapshot]
}

func NewStore(log *zap.Logger, repo domain.Repository, overrides *config.RateOverridesHolder) *Store {
	s := &Store{
		log:       log.Named("vat.rates"),
		repo:      repo,
		overrides: overrides,
	}
	s.current.Store(&snapshot{
		windows:    map[rateKey][]rateWindow{},
		categories: map[string]struct{}{},
	})

	if overrides != nil {
		// An operator edit to rates.yml takes effect without a
		// restart: rebuild the snapshot whenever the override set is
		// swapped.
		overrides.OnChange(func() {
			if err := s.Load(context.Background()); err != nil {
				s.log.Error("rate snapshot reload after override change failed", zap.Error(err))
			}
		})
	}
	return s
}

// Load rebuilds the snapshot from the rate table plus the override
// file and swaps it in atomically. In-flight lookups keep reading the
// previous snapshot.
func (s *Store) Load(ctx context.Context) error {
	rows, err := s.repo.ListAllRates(ctx)
	if err != nil {
		return err
	}
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return err
	}

	categories := make(map[string]struct{}, len(cats))
	for _, c := range cats {
		categories[strings.ToUpper(c.Code)] = struct{}{}
	}

	windows := make(map[rateKey][]rateWindow, len(rows))
	for _, row := range rows {
		k := rateKey{
			Country:  strings.ToUpper(row.CountryCode),
			Category: strings.ToUpper(row.CategoryCode),
		}
		windows[k] = append(windows[k], rateWindow{
			EffectiveFrom: dateOnly(row.EffectiveFrom),
			Rate:          row.Rate,
		})
	}

	overrideCount := s.mergeOverrides(windows)

	for k := range windows {
		sort.Slice(windows[k], func(i, j int) bool {
			return windows[k][i].EffectiveFrom.Before(windows[k][j].EffectiveFrom)
		})
	}

	s.current.Store(&snapshot{windows: windows, categories: categories})
	s.log.Info("rate snapshot loaded",
		zap.Int("rows", len(rows)),
		zap.Int("overrides", overrideCount),
		zap.Int("keys", len(windows)),
		zap.Int("categories", len(categories)),
	)
	return nil
}

func (s *Store) mergeOverrides(windows map[rateKey][]rateWindow) int {
	if s.overrides == nil {
		return 0
	}

	merged := 0
	for _, o := range s.overrides.Current() {
		rate, err := decimal.NewFromString(strings.TrimSpace(o.Rate))
		if err != nil {
			s.log.Warn("skipping override with bad rate",
				zap.String("country", o.Country),
				zap.String("category", o.Category),
				zap.String("rate", o.Rate),
			)
			continue
		}
		from, err := time.Parse("2006-01-02", strings.TrimSpace(o.EffectiveFrom))
		if err != nil {
			s.log.Warn("skipping override with bad effective_from",
				zap.String("country", o.Country),
				zap.String("category", o.Category),
				zap.String("effective_from", o.EffectiveFrom),
			)
			continue
		}

		k := rateKey{
			Country:  strings.ToUpper(strings.TrimSpace(o.Country)),
			Category: strings.ToUpper(strings.TrimSpace(o.Category)),
		}
		windows[k] = append(windows[k], rateWindow{EffectiveFrom: from, Rate: rate})
		merged++
	}
	return merged
}

// Lookup resolves the rate in force for (country, category) on asOf:
// among rows with effective_from <= asOf, the one with the latest
// effective_from wins. Returns ErrRateNotFound when no row qualifies.
func (s *Store) Lookup(country, category string, asOf time.Time) (decimal.Decimal, error) {
	snap := s.current.Load()
	k := rateKey{
		Country:  strings.ToUpper(strings.TrimSpace(country)),
		Category: strings.ToUpper(strings.TrimSpace(category)),
	}

	history := snap.windows[k]
	if len(history) == 0 {
		return decimal.Decimal{}, domain.ErrRateNotFound
	}

	day := dateOnly(asOf)
	// First window strictly after asOf; the row before it is in force.
	idx := sort.Search(len(history), func(i int) bool {
		return history[i].EffectiveFrom.After(day)
	})
	if idx == 0 {
		return decimal.Decimal{}, domain.ErrRateNotFound
	}
	return history[idx-1].Rate, nil
}

// Has reports whether any rate row exists for the key on asOf,
// without exposing the rate itself.
func (s *Store) Has(country, category string, asOf time.Time) bool {
	_, err := s.Lookup(country, category, asOf)
	return err == nil
}

// HasCategory reports whether the code names a known VAT category.
func (s *Store) HasCategory(code string) bool {
	_, ok := s.current.Load().categories[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
