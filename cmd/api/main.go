package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"storefront/internal/cache"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	productrepo "storefront/internal/repository/product"
	"storefront/internal/seed"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New("api", cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer dbpool.Close()

	mapper := productrepo.NewMapper()
	mapper.Labels = productrepo.LabelsFor(cfg.CategoryLabels)
	mapper.Signals = seed.NewSignals()
	if cfg.DefaultImageURL != "" {
		mapper.DefaultImage = cfg.DefaultImageURL
	}
	productRepo := productrepo.NewPostgres(dbpool, mapper, logger)

	loaderOpts := []catalogsvc.LoaderOption{catalogsvc.WithStaleTime(cfg.CatalogStale)}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, catalog cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			loaderOpts = append(loaderOpts, catalogsvc.WithCache(cache.NewRedisCache(rdb, cfg.CatalogStale)))
			logger.Info("catalog cache enabled", zap.String("addr", cfg.RedisAddr))
		}
	}
	loader := catalogsvc.NewLoader(productRepo, logger, loaderOpts...)

	lang, err := language.Parse(cfg.CatalogLocale)
	if err != nil {
		logger.Warn("unknown catalog locale, using German", zap.String("locale", cfg.CatalogLocale), zap.Error(err))
		lang = language.German
	}
	catalogService := catalogsvc.New(loader, catalog.NewPipeline(lang))
	cartService := cartsvc.New(loader, logger, cartsvc.WithIdleTimeout(cfg.CartIdleTimeout))

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CatalogSvc:  catalogService,
		CartSvc:     cartService,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return cartService.Run(gctx, time.Minute)
	})
	g.Go(func() error {
		// Warm the catalog so the first shopper does not wait on the fetch.
		if _, err := loader.Products(gctx); err != nil {
			logger.Warn("initial catalog load failed", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
