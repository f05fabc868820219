package main

import (
	"techsheet-backend/internal/app"
	"techsheet-backend/internal/config"
	"techsheet-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}
	log.Info().Msg("Database connected")

	fiberApp, err := app.CreateApp(cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("app create")
	}

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Server running")
	if err := fiberApp.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
