package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/roamagg/internal/clock"
	"github.com/smallbiznis/roamagg/internal/config"
	"github.com/smallbiznis/roamagg/internal/migration"
	"github.com/smallbiznis/roamagg/internal/observability"
	"github.com/smallbiznis/roamagg/internal/server"
	"github.com/smallbiznis/roamagg/pkg/db"
	"go.uber.org/fx"
)

func main() {
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
