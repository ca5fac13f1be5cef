package store

import (
	"context"
	"fmt"
	"log/slog"

	"example/seo-score-api/app/config"
)

// New creates a Store for the configured driver.
func New(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgres(ctx, cfg.DSN(), logger)
	case config.DriverSQLite, "":
		return NewSQLite(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported storage driver: %q", cfg.Driver)
	}
}
