package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// RateFilter narrows admin rate listings. Zero values mean "any".
type RateFilter struct {
	CountryCode  string
	CategoryCode string
}

// Repository persists rate and category reference data. Rates are
// append-only: there is no update or delete.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	FindCategory(ctx context.Context, code string) (*Category, error)

	ListRates(ctx context.Context, f RateFilter) ([]CountryRate, error)
	// ListAllRates returns every rate row; it feeds the in-memory
	// snapshot and must not filter or paginate.
	ListAllRates(ctx context.Context) ([]CountryRate, error)
	FindRateByID(ctx context.Context, id snowflake.ID) (*CountryRate, error)
	CreateRate(ctx context.Context, rate *CountryRate) error
}
