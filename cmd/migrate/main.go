package main

import (
	"context"
	"time"

	"github.com/jvidalc/stock-core/internal/infrastructure/postgres"
	"github.com/jvidalc/stock-core/pkg/config"
	"github.com/jvidalc/stock-core/pkg/logger"
)

// Aplica el esquema de la base de datos. Uso:
//
//	DATABASE_URL=postgres://... go run ./cmd/migrate
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración")
	}
	log.Info().Str("db", cfg.DB.DBName).Msg("esquema aplicado")
}
