package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Apply runs all embedded migrations up and returns the resulting schema version.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) (uint, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	srcDriver, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return 0, fmt.Errorf("init iofs: %w", err)
	}

	sqlDB, err := sql.Open("pgx", pool.Config().ConnString())
	if err != nil {
		return 0, fmt.Errorf("open sql db: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return 0, fmt.Errorf("ping sql db: %w", err)
	}

	dbDriver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return 0, fmt.Errorf("init db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "pgx", dbDriver)
	if err != nil {
		return 0, fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			logger.Info("schema up to date")
		case errors.Is(err, fs.ErrNotExist):
			return 0, fmt.Errorf("migrate up: %w (hint: every migration version needs both `.up.sql` and `.down.sql`)", err)
		default:
			return 0, fmt.Errorf("migrate up: %w", err)
		}
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	logger.Info("migrations applied", zap.Uint("version", version))
	return version, nil
}
