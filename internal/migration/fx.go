package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/smallbiznis/clearbill/internal/config"
	refdomain "github.com/smallbiznis/clearbill/internal/reference/domain"
	"github.com/smallbiznis/clearbill/internal/seed"
	vatdomain "github.com/smallbiznis/clearbill/internal/vat/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := conn.AutoMigrate(
				&refdomain.Country{},
				&refdomain.Currency{},
				&vatdomain.Category{},
				&vatdomain.CountryRate{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedReferenceData {
			return seed.EnsureReferenceData(conn)
		}
		return nil
	}),
)
