package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	vatdomain "github.com/smallbiznis/clearbill/internal/vat/domain"
	"github.com/smallbiznis/clearbill/pkg/db"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) vatdomain.Repository {
	return &repository{db: db}
}

func (r *repository) ListCategories(ctx context.Context) ([]vatdomain.Category, error) {
	var items []vatdomain.Category
	err := r.db.WithContext(ctx).
		Model(&vatdomain.Category{}).
		Order("code ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindCategory(ctx context.Context, code string) (*vatdomain.Category, error) {
	var cat vatdomain.Category
	err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *repository) ListRates(ctx context.Context, f vatdomain.RateFilter) ([]vatdomain.CountryRate, error) {
	var items []vatdomain.CountryRate
	stmt := r.db.WithContext(ctx).Model(&vatdomain.CountryRate{})

	if f.CountryCode != "" {
		stmt = stmt.Where("country_code = ?", strings.ToUpper(strings.TrimSpace(f.CountryCode)))
	}
	if f.CategoryCode != "" {
		stmt = stmt.Where("category_code = ?", strings.ToUpper(strings.TrimSpace(f.CategoryCode)))
	}

	err := stmt.
		Order("country_code ASC, category_code ASC, effective_from ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListAllRates(ctx context.Context) ([]vatdomain.CountryRate, error) {
	var items []vatdomain.CountryRate
	err := r.db.WithContext(ctx).
		Model(&vatdomain.CountryRate{}).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindRateByID(ctx context.Context, id snowflake.ID) (*vatdomain.CountryRate, error) {
	var rate vatdomain.CountryRate
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *repository) CreateRate(ctx context.Context, rate *vatdomain.CountryRate) error {
	if err := r.db.WithContext(ctx).Create(rate).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return vatdomain.ErrRateExists
		}
		return err
	}
	return nil
}
