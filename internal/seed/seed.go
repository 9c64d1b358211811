// Package seed loads the built-in reference data: ISO currencies,
// countries with EU/EEA membership flags, VAT categories and the
// country x category rate table. Seeding is idempotent; existing rows
// are left untouched so operator edits survive restarts.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	refdomain "github.com/smallbiznis/clearbill/internal/reference/domain"
	vatdomain "github.com/smallbiznis/clearbill/internal/vat/domain"
)

// EnsureReferenceData seeds all reference tables inside one
// transaction.
func EnsureReferenceData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCurrencies(ctx, tx); err != nil {
			return err
		}
		if err := ensureCountries(ctx, tx); err != nil {
			return err
		}
		if err := ensureCategories(ctx, tx); err != nil {
			return err
		}
		return ensureRates(ctx, tx, node)
	})
}

func ensureCurrencies(ctx context.Context, tx *gorm.DB) error {
	rows := make([]refdomain.Currency, 0, len(currencies))
	for _, c := range currencies {
		rows = append(rows, refdomain.Currency{
			Code:      c.code,
			Name:      c.name,
			Symbol:    strPtr(c.symbol),
			MinorUnit: c.minorUnit,
			IsActive:  true,
		})
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func ensureCountries(ctx context.Context, tx *gorm.DB) error {
	rows := make([]refdomain.Country, 0, len(countries))
	for _, c := range countries {
		rows = append(rows, refdomain.Country{
			Code:            c.code,
			Name:            c.name,
			IsEUMember:      c.eu,
			IsEEAMember:     c.eea,
			StandardVATRate: ratePtr(c.standardRate),
			CurrencyCode:    c.currency,
		})
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func ensureCategories(ctx context.Context, tx *gorm.DB) error {
	rows := make([]vatdomain.Category, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, vatdomain.Category{
			Code:             c.code,
			Name:             c.name,
			AnnexIIICategory: c.annexIII,
		})
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func ensureRates(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	rows := make([]vatdomain.CountryRate, 0, len(rates))
	for _, r := range rates {
		from, err := time.Parse("2006-01-02", r.from)
		if err != nil {
			return err
		}
		rows = append(rows, vatdomain.CountryRate{
			ID:            node.Generate(),
			CountryCode:   r.country,
			CategoryCode:  r.category,
			RateType:      r.rateType,
			Rate:          decimal.RequireFromString(r.rate),
			EffectiveFrom: from,
		})
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "country_code"}, {Name: "category_code"}, {Name: "effective_from"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ratePtr(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d := decimal.RequireFromString(s)
	return &d
}
