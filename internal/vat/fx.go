package vat

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/clearbill/internal/vat/rates"
	"github.com/smallbiznis/clearbill/internal/vat/repository"
	"github.com/smallbiznis/clearbill/internal/vat/service"
)

var Module = fx.Module("vat.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(rates.NewStore),
	fx.Provide(service.NewService),
)
