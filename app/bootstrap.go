package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"example/seo-score-api/app/analyzer"
	"example/seo-score-api/app/billing"
	"example/seo-score-api/app/config"
	"example/seo-score-api/app/ledger"
	"example/seo-score-api/app/queue"
	"example/seo-score-api/app/store"
	"example/seo-score-api/auth"
)

// App owns the process-wide dependencies built from Config.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Store  store.Store
	Ledger *ledger.Ledger
	Server *Server

	closers []func() error
}

// Bootstrap constructs every dependency for the HTTP API. Close releases them.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := NewLogger(cfg.Logs)
	a := &App{Config: cfg, Logger: logger}

	st, err := store.New(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.Store = st
	a.closers = append(a.closers, st.Close)
	a.Ledger = ledger.New(st, logger)

	provider, err := analyzer.NewProvider(ctx, cfg.Analysis)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("analysis provider: %w", err)
	}
	if closer, ok := provider.(io.Closer); ok {
		a.closers = append(a.closers, closer.Close)
	}
	opts := analyzer.Options{Timeout: cfg.Analysis.Timeout, Logger: logger}
	if cfg.Analysis.FetchPage {
		opts.Fetcher = analyzer.NewPageFetcher(nil)
	}
	an := analyzer.New(provider, opts)

	deps := Deps{
		Store:         st,
		Ledger:        a.Ledger,
		Analyzer:      an,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		AuthMode:      auth.Mode(cfg.Auth.Mode),
		Logger:        logger,
	}

	if cfg.Stripe.Enabled() {
		bc, err := billing.New(cfg.Stripe.SecretKey, cfg.Stripe.PriceIDProMonthly)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("stripe client: %w", err)
		}
		deps.Billing = bc
	}

	if cfg.BillingQueueURL != "" {
		q, err := queue.Connect(ctx, cfg.BillingQueueURL, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("billing queue: %w", err)
		}
		deps.Events = q
	}

	if cfg.Auth.Issuer != "" {
		v, err := auth.NewVerifier(auth.VerifierConfig{
			Issuer:            cfg.Auth.Issuer,
			Audience:          cfg.Auth.Audience,
			JWKSURL:           cfg.Auth.JWKSURL,
			AuthorizedParties: cfg.Auth.AuthorizedParties,
		})
		switch {
		case err == nil:
			deps.Verifier = v
		case cfg.Auth.Mode == config.AuthModeStrict:
			a.Close()
			return nil, fmt.Errorf("auth verifier: %w", err)
		default:
			logger.Warn("auth verifier unavailable, trusting caller-supplied user ids", "err", err)
		}
	}

	a.Server = NewServer(deps)

	logger.Info("api configured",
		"auth_mode", cfg.Auth.Mode,
		"store", cfg.DB.Driver,
		"provider", an.ProviderName(),
		"stripe", cfg.Stripe.Enabled(),
		"billing_queue", cfg.BillingQueueURL != "",
	)
	return a, nil
}

// Close releases dependencies in reverse order of construction.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
