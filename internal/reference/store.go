package reference

import (
	"context"
	"sync/atomic"

	"github.com/smallbiznis/clearbill/internal/reference/domain"
	"go.uber.org/zap"
)

// Store holds the process-wide country snapshot. Countries change so
// rarely that the snapshot is only rebuilt on startup.
type Store struct {
	log     *zap.Logger
	repo    domain.Repository
	current atomic.Pointer[domain.CountrySet]
}

func NewStore(log *zap.Logger, repo domain.Repository) *Store {
	s := &Store{
		log:  log.Named("reference.store"),
		repo: repo,
	}
	s.current.Store(domain.NewCountrySet(nil))
	return s
}

// Load replaces the snapshot with the current table contents.
func (s *Store) Load(ctx context.Context) error {
	countries, err := s.repo.ListCountries(ctx)
	if err != nil {
		return err
	}
	s.current.Store(domain.NewCountrySet(countries))
	s.log.Info("country snapshot loaded", zap.Int("countries", len(countries)))
	return nil
}

// Countries returns the current immutable snapshot.
func (s *Store) Countries() *domain.CountrySet {
	return s.current.Load()
}
