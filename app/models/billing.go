package models

// BillingEventType names the Stripe lifecycle events the ledger reacts to.
type BillingEventType string

const (
	EventCheckoutCompleted   BillingEventType = "checkout.session.completed"
	EventSubscriptionDeleted BillingEventType = "customer.subscription.deleted"
)

// BillingEvent is a verified Stripe event reduced to the identifiers the ledger keys on.
// It is also the message body published to the billing queue.
type BillingEvent struct {
	ID             string           `json:"id"`
	Type           BillingEventType `json:"type"`
	UserID         string           `json:"user_id,omitempty"`
	CustomerID     string           `json:"customer_id,omitempty"`
	SubscriptionID string           `json:"subscription_id,omitempty"`
}
