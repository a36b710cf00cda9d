package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/clock"
	"github.com/lumora-hq/lumora/internal/config"
	"github.com/lumora-hq/lumora/internal/logger"
	"github.com/lumora-hq/lumora/internal/migration"
	"github.com/lumora-hq/lumora/internal/server"
	"github.com/lumora-hq/lumora/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
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
