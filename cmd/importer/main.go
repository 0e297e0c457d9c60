package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	"storefront/internal/logging"
	"storefront/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to product CSV (title,price,category,... with optional field.* columns)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := logging.New("importer", cfg.LogLevel)
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

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, product.NewPostgres(pool, nil, logger), logger)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
