// Package models defines subscription plans, usage counters and report records.
package models

import "time"

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

const (
	FreeAnalysesLimit = 3
	ProAnalysesLimit  = 100
)

// AnalysesLimit is derived from the plan and never stored.
func (p Plan) AnalysesLimit() int {
	if p == PlanPro {
		return ProAnalysesLimit
	}
	return FreeAnalysesLimit
}

// Subscription is the per-user entitlement record.
type Subscription struct {
	UserID               string    `db:"user_id" json:"user_id"`
	Plan                 Plan      `db:"plan" json:"plan"`
	AnalysesUsed         int       `db:"analyses_used" json:"analyses_used"`
	StripeCustomerID     string    `db:"stripe_customer_id" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string    `db:"stripe_subscription_id" json:"stripe_subscription_id,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// DefaultSubscription is the implicit record for a user that has never been stored.
func DefaultSubscription(userID string, now time.Time) Subscription {
	return Subscription{
		UserID:    userID,
		Plan:      PlanFree,
		CreatedAt: now,
	}
}

func (s Subscription) AnalysesLimit() int {
	return s.Plan.AnalysesLimit()
}

// QuotaExhausted reports whether a free user has used every analysis in the cycle.
// Pro limits are informational only.
func (s Subscription) QuotaExhausted() bool {
	return s.Plan == PlanFree && s.AnalysesUsed >= s.AnalysesLimit()
}

// SubscriptionView is the shape returned to clients.
type SubscriptionView struct {
	Plan                 Plan   `json:"plan"`
	AnalysesUsed         int    `json:"analyses_used"`
	AnalysesLimit        int    `json:"analyses_limit"`
	Remaining            int    `json:"remaining"`
	StripeCustomerID     string `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string `json:"stripe_subscription_id,omitempty"`
}

func (s Subscription) View() SubscriptionView {
	remaining := s.AnalysesLimit() - s.AnalysesUsed
	if remaining < 0 {
		remaining = 0
	}
	return SubscriptionView{
		Plan:                 s.Plan,
		AnalysesUsed:         s.AnalysesUsed,
		AnalysesLimit:        s.AnalysesLimit(),
		Remaining:            remaining,
		StripeCustomerID:     s.StripeCustomerID,
		StripeSubscriptionID: s.StripeSubscriptionID,
	}
}
