package main

import (
	"shareit/config"
	"shareit/di"
	"shareit/helper"
	"shareit/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title ShareIt API
// @version 1.0
// @description Item sharing and booking service. Acting users are identified by the X-Sharer-User-Id header.
// @BasePath /
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	app := di.InitializeService()

	defer func() {
		_ = app.Close()
	}()

	app.HTTP.Serve()
}
