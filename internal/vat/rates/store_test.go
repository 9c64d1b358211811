package rates

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/clearbill/internal/config"
	"github.com/smallbiznis/clearbill/internal/vat/domain"
	"github.com/smallbiznis/clearbill/internal/vat/repository"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestStore(t *testing.T) (*Store, domain.Repository) {
	return newTestStoreWithOverrides(t, nil)
}

func newTestStoreWithOverrides(t *testing.T, overrides *config.RateOverridesHolder) (*Store, domain.Repository) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Category{}, &domain.CountryRate{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := repository.NewRepository(conn)
	ctx := context.Background()

	require.NoError(t, conn.Create(&domain.Category{Code: domain.CategoryStandard, Name: "Standard"}).Error)

	seed := []domain.CountryRate{
		{CountryCode: "SK", CategoryCode: domain.CategoryStandard, RateType: domain.RateTypeStandard, Rate: decimal.RequireFromString("20"), EffectiveFrom: date("2011-01-01")},
		{CountryCode: "SK", CategoryCode: domain.CategoryStandard, RateType: domain.RateTypeStandard, Rate: decimal.RequireFromString("23"), EffectiveFrom: date("2025-01-01")},
		{CountryCode: "EE", CategoryCode: domain.CategoryStandard, RateType: domain.RateTypeStandard, Rate: decimal.RequireFromString("20"), EffectiveFrom: date("2009-07-01")},
		{CountryCode: "EE", CategoryCode: domain.CategoryStandard, RateType: domain.RateTypeStandard, Rate: decimal.RequireFromString("22"), EffectiveFrom: date("2024-01-01")},
		{CountryCode: "EE", CategoryCode: domain.CategoryStandard, RateType: domain.RateTypeStandard, Rate: decimal.RequireFromString("24"), EffectiveFrom: date("2025-07-01")},
	}
	for i := range seed {
		seed[i].ID = node.Generate()
		require.NoError(t, repo.CreateRate(ctx, &seed[i]))
	}

	store := NewStore(zap.NewNop(), repo, overrides)
	require.NoError(t, store.Load(ctx))
	return store, repo
}

func TestLookupPicksLatestEffectiveRate(t *testing.T) {
	store, _ := newTestStore(t)

	cases := []struct {
		name    string
		country string
		asOf    string
		want    string
	}{
		{"before the change the old rate applies", "SK", "2024-12-31", "20"},
		{"on the effective date the new rate applies", "SK", "2025-01-01", "23"},
		{"after the change the new rate applies", "SK", "2025-06-15", "23"},
		{"two changes back, middle window", "EE", "2024-06-01", "22"},
		{"two changes back, latest window", "EE", "2025-07-01", "24"},
		{"two changes back, oldest window", "EE", "2015-01-01", "20"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rate, err := store.Lookup(tc.country, domain.CategoryStandard, date(tc.asOf))
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(rate), "got %s", rate)
		})
	}
}

func TestLookupMisses(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Lookup("SK", "BOOKS", date("2025-01-01"))
	assert.ErrorIs(t, err, domain.ErrRateNotFound)

	_, err = store.Lookup("XX", domain.CategoryStandard, date("2025-01-01"))
	assert.ErrorIs(t, err, domain.ErrRateNotFound)

	// Date before the earliest effective_from has no rate in force.
	_, err = store.Lookup("SK", domain.CategoryStandard, date("2010-12-31"))
	assert.ErrorIs(t, err, domain.ErrRateNotFound)
}

func TestLookupNormalizesKey(t *testing.T) {
	store, _ := newTestStore(t)

	rate, err := store.Lookup(" sk ", "standard", date("2025-02-01"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("23").Equal(rate))
}

func TestReloadPicksUpAppendedRate(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	require.NoError(t, repo.CreateRate(ctx, &domain.CountryRate{
		ID:            node.Generate(),
		CountryCode:   "SK",
		CategoryCode:  domain.CategoryStandard,
		RateType:      domain.RateTypeStandard,
		Rate:          decimal.RequireFromString("25"),
		EffectiveFrom: date("2030-01-01"),
	}))

	// Not visible until reload.
	rate, err := store.Lookup("SK", domain.CategoryStandard, date("2030-06-01"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("23").Equal(rate))

	require.NoError(t, store.Load(ctx))
	rate, err = store.Lookup("SK", domain.CategoryStandard, date("2030-06-01"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("25").Equal(rate))
}

func TestOverrideSwapRebuildsSnapshot(t *testing.T) {
	overrides := &config.RateOverridesHolder{}
	store, _ := newTestStoreWithOverrides(t, overrides)

	rate, err := store.Lookup("SK", domain.CategoryStandard, date("2026-01-01"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("23").Equal(rate))

	// Swapping the override set stands in for an operator edit to
	// rates.yml; the store must rebuild without an explicit Load.
	overrides.Replace([]config.RateOverride{{
		Country:       "SK",
		Category:      domain.CategoryStandard,
		RateType:      string(domain.RateTypeStandard),
		Rate:          "25",
		EffectiveFrom: "2026-01-01",
	}})

	rate, err = store.Lookup("SK", domain.CategoryStandard, date("2026-01-01"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("25").Equal(rate))

	// Dates before the override's window keep the table rate.
	rate, err = store.Lookup("SK", domain.CategoryStandard, date("2025-06-01"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("23").Equal(rate))
}

func TestHasCategory(t *testing.T) {
	store, _ := newTestStore(t)

	assert.True(t, store.HasCategory("standard"))
	assert.False(t, store.HasCategory("BOOKS"))
}
