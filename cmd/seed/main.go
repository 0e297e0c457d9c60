package main

import (
	"context"

	"go.uber.org/zap"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logging"
	"storefront/internal/repository/product"
	"storefront/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := logging.New("seed", cfg.LogLevel)
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

	n, err := seed.Apply(ctx, product.NewPostgres(pool, nil, logger), logger)
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied", zap.Int("products", n))
}
