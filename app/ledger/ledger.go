// Package ledger owns per-user entitlements: plan, usage counter and billing ids.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"example/seo-score-api/app/models"
	"example/seo-score-api/app/store"
)

type QuotaError struct {
	Limit int
	Used  int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("free plan quota exceeded: %d of %d analyses used", e.Used, e.Limit)
}

// CustomerCreator creates a customer at the payment processor and returns its id.
type CustomerCreator interface {
	CreateCustomer(ctx context.Context, email, userID string) (string, error)
}

type Ledger struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

func New(s store.Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		store:  s,
		logger: logger.With("component", "ledger"),
		now:    time.Now,
	}
}

// GetOrCreate returns the record for userID, inserting the free default when
// none exists. Store failures yield the unsaved default.
func (l *Ledger) GetOrCreate(ctx context.Context, userID string) models.Subscription {
	sub, err := l.store.GetSubscription(ctx, userID)
	if err != nil {
		l.logger.Warn("subscription lookup failed, using defaults", "user_id", userID, "err", err)
		return models.DefaultSubscription(userID, l.now())
	}
	if sub != nil {
		return *sub
	}

	def := models.DefaultSubscription(userID, l.now())
	if err := l.store.CreateSubscription(ctx, def); err != nil {
		l.logger.Warn("subscription insert failed, using defaults", "user_id", userID, "err", err)
		return def
	}

	// Concurrent first requests race on the insert; read back the winner.
	sub, err = l.store.GetSubscription(ctx, userID)
	if err != nil || sub == nil {
		return def
	}
	return *sub
}

// Reservation is a usage slot taken by AuthorizeAndRecord.
type Reservation struct {
	UserID   string
	Recorded bool
}

// AuthorizeAndRecord rejects exhausted free users with *QuotaError and
// otherwise reserves one analysis with a single conditional update. Callers
// must Release the reservation if the report is never written.
func (l *Ledger) AuthorizeAndRecord(ctx context.Context, userID string) (Reservation, error) {
	sub := l.GetOrCreate(ctx, userID)
	if sub.QuotaExhausted() {
		return Reservation{}, &QuotaError{Limit: sub.AnalysesLimit(), Used: sub.AnalysesUsed}
	}

	ok, err := l.store.IncrementUsage(ctx, userID, models.FreeAnalysesLimit)
	if err != nil {
		l.logger.Warn("usage increment failed, proceeding unrecorded", "user_id", userID, "err", err)
		return Reservation{UserID: userID}, nil
	}
	if ok {
		return Reservation{UserID: userID, Recorded: true}, nil
	}

	// No row matched: either another request took the last slot or the record
	// only exists in memory because the store is unhealthy.
	cur, err := l.store.GetSubscription(ctx, userID)
	if err == nil && cur != nil && cur.QuotaExhausted() {
		return Reservation{}, &QuotaError{Limit: cur.AnalysesLimit(), Used: cur.AnalysesUsed}
	}
	l.logger.Warn("usage not recorded", "user_id", userID)
	return Reservation{UserID: userID}, nil
}

// Release returns a recorded slot.
func (l *Ledger) Release(ctx context.Context, r Reservation) {
	if !r.Recorded {
		return
	}
	if err := l.store.DecrementUsage(ctx, r.UserID); err != nil {
		l.logger.Warn("usage release failed", "user_id", r.UserID, "err", err)
	}
}

// ApplyBillingEvent moves a record between plans. Unknown event types and
// events missing their key are ignored.
func (l *Ledger) ApplyBillingEvent(ctx context.Context, ev models.BillingEvent) error {
	log := l.logger.With("event_id", ev.ID, "event_type", string(ev.Type))

	switch ev.Type {
	case models.EventCheckoutCompleted:
		if ev.UserID == "" {
			log.Warn("checkout completed without user_id metadata")
			return nil
		}
		err := l.store.UpgradeToPro(ctx, models.Subscription{
			UserID:               ev.UserID,
			Plan:                 models.PlanPro,
			StripeCustomerID:     ev.CustomerID,
			StripeSubscriptionID: ev.SubscriptionID,
			CreatedAt:            l.now(),
		})
		if err != nil {
			return fmt.Errorf("upgrade %s to pro: %w", ev.UserID, err)
		}
		log.Info("user upgraded to pro", "user_id", ev.UserID, "subscription_id", ev.SubscriptionID)

	case models.EventSubscriptionDeleted:
		if ev.SubscriptionID == "" {
			log.Warn("subscription deleted without subscription id")
			return nil
		}
		n, err := l.store.DowngradeBySubscriptionID(ctx, ev.SubscriptionID)
		if err != nil {
			return fmt.Errorf("downgrade subscription %s: %w", ev.SubscriptionID, err)
		}
		if n == 0 {
			log.Info("no record for cancelled subscription", "subscription_id", ev.SubscriptionID)
			return nil
		}
		log.Info("subscription cancelled, downgraded to free", "subscription_id", ev.SubscriptionID)

	default:
		log.Debug("ignoring billing event")
	}
	return nil
}

// EnsureBillingCustomer returns the user's processor customer id, creating
// and storing one on first use.
func (l *Ledger) EnsureBillingCustomer(ctx context.Context, userID, email string, creator CustomerCreator) (string, error) {
	sub := l.GetOrCreate(ctx, userID)
	if sub.StripeCustomerID != "" {
		return sub.StripeCustomerID, nil
	}

	customerID, err := creator.CreateCustomer(ctx, email, userID)
	if err != nil {
		return "", err
	}

	ok, err := l.store.SetStripeCustomerID(ctx, userID, customerID)
	if err != nil {
		return "", fmt.Errorf("store billing customer for %s: %w", userID, err)
	}
	if ok {
		return customerID, nil
	}

	cur, err := l.store.GetSubscription(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("reload subscription for %s: %w", userID, err)
	}
	if cur == nil || cur.StripeCustomerID == "" {
		return "", fmt.Errorf("no subscription record to attach customer %s for %s", customerID, userID)
	}
	l.logger.Warn("billing customer already set, discarding new one",
		"user_id", userID, "kept", cur.StripeCustomerID, "orphaned", customerID)
	return cur.StripeCustomerID, nil
}
