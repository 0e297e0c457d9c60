package main

import (
	"context"

	"go.uber.org/zap"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logging"
	"storefront/internal/migrate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := logging.New("migrate", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	version, err := migrate.Apply(ctx, pool, logger)
	if err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	logger.Info("schema ready", zap.Uint("version", version))
}
