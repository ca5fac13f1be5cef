package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"example/seo-score-api/app/store/migrations"

	_ "github.com/lib/pq"
)

// NewPostgres opens a Postgres store and applies pending migrations.
func NewPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := migrations.Up(db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("connected to postgres", "target", redactDSN(dsn))
	return &SQLStore{db: db, dialect: dialectPostgres}, nil
}

// redactDSN keeps only host and database name.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "unparsable dsn"
	}
	return u.Hostname() + "/" + strings.TrimPrefix(u.Path, "/")
}
