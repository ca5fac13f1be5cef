package app

import (
	"context"
	"fmt"
	"log/slog"

	"example/seo-score-api/app/config"
	"example/seo-score-api/app/ledger"
	"example/seo-score-api/app/models"
	"example/seo-score-api/app/store"
)

// Worker applies queued billing events to the ledger.
type Worker struct {
	store  store.Store
	ledger *ledger.Ledger
	logger *slog.Logger
}

func NewWorker(ctx context.Context, cfg *config.Config) (*Worker, error) {
	logger := NewLogger(cfg.Logs)
	st, err := store.New(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Worker{store: st, ledger: ledger.New(st, logger), logger: logger}, nil
}

// Handle matches queue.Handler.
func (w *Worker) Handle(ctx context.Context, ev models.BillingEvent) error {
	return w.ledger.ApplyBillingEvent(ctx, ev)
}

func (w *Worker) Logger() *slog.Logger {
	return w.logger
}

func (w *Worker) Close() error {
	return w.store.Close()
}
