// Package app serves the SEO score HTTP API and wires its dependencies.
package app

import (
	"context"
	"log/slog"
	"time"

	"example/seo-score-api/app/analyzer"
	"example/seo-score-api/app/billing"
	"example/seo-score-api/app/ledger"
	"example/seo-score-api/app/models"
	"example/seo-score-api/app/store"
	"example/seo-score-api/auth"
)

// BillingProcessor is the payment processor surface the handlers need.
type BillingProcessor interface {
	CreateCustomer(ctx context.Context, email, userID string) (string, error)
	CreateCheckoutSession(ctx context.Context, p billing.CheckoutParams) (*billing.CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

// EventPublisher hands verified billing events to an asynchronous consumer.
type EventPublisher interface {
	Publish(ctx context.Context, ev models.BillingEvent) error
}

type Deps struct {
	Store    store.Store
	Ledger   *ledger.Ledger
	Analyzer *analyzer.Analyzer
	// Billing is nil when Stripe is not configured.
	Billing       BillingProcessor
	WebhookSecret string
	// Events is nil when webhook events are applied inline.
	Events   EventPublisher
	Verifier *auth.Verifier
	AuthMode auth.Mode
	Logger   *slog.Logger
	Now      func() time.Time
}

type Server struct {
	store         store.Store
	ledger        *ledger.Ledger
	analyzer      *analyzer.Analyzer
	billing       BillingProcessor
	webhookSecret string
	events        EventPublisher
	verifier      *auth.Verifier
	authMode      auth.Mode
	logger        *slog.Logger
	now           func() time.Time
}

func NewServer(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.AuthMode == "" {
		d.AuthMode = auth.ModePermissive
	}
	return &Server{
		store:         d.Store,
		ledger:        d.Ledger,
		analyzer:      d.Analyzer,
		billing:       d.Billing,
		webhookSecret: d.WebhookSecret,
		events:        d.Events,
		verifier:      d.Verifier,
		authMode:      d.AuthMode,
		logger:        d.Logger,
		now:           d.Now,
	}
}
