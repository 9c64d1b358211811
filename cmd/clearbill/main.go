package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/smallbiznis/clearbill/internal/clock"
	"github.com/smallbiznis/clearbill/internal/config"
	"github.com/smallbiznis/clearbill/internal/migration"
	"github.com/smallbiznis/clearbill/internal/observability"
	"github.com/smallbiznis/clearbill/internal/server"
	"github.com/smallbiznis/clearbill/pkg/db"
)

func main() {
	// Monetary fields serialize as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true

	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
