package reference

import (
	"context"

	"github.com/smallbiznis/clearbill/internal/reference/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ListCountries(ctx context.Context) ([]domain.Country, error) {
	var countries []domain.Country
	err := r.db.WithContext(ctx).
		Model(&domain.Country{}).
		Order("code").
		Find(&countries).Error
	if err != nil {
		return nil, err
	}
	return countries, nil
}

func (r *repository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	var currencies []domain.Currency
	err := r.db.WithContext(ctx).
		Model(&domain.Currency{}).
		Where("is_active = ?", true).
		Order("code").
		Find(&currencies).Error
	if err != nil {
		return nil, err
	}
	return currencies, nil
}
