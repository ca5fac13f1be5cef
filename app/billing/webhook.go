package billing

import (
	"encoding/json"
	"errors"
	"fmt"

	"example/seo-score-api/app/models"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidPayload   = errors.New("invalid payload")
)

// ParseWebhook turns a Stripe webhook body into a BillingEvent. When secret is
// set the Stripe-Signature header must verify; otherwise the body is trusted.
// Events other than the two billing transitions come back with only ID and
// Type set.
func ParseWebhook(payload []byte, sigHeader, secret string) (models.BillingEvent, error) {
	var (
		event stripe.Event
		err   error
	)
	if secret != "" {
		event, err = webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
		if err != nil {
			if isSignatureError(err) {
				return models.BillingEvent{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
			}
			return models.BillingEvent{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	} else if err := json.Unmarshal(payload, &event); err != nil {
		return models.BillingEvent{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	out := models.BillingEvent{
		ID:   event.ID,
		Type: models.BillingEventType(event.Type),
	}
	if event.Data == nil {
		return out, nil
	}

	switch out.Type {
	case models.EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return models.BillingEvent{}, fmt.Errorf("%w: checkout session: %v", ErrInvalidPayload, err)
		}
		out.UserID = sess.Metadata["user_id"]
		if sess.Customer != nil {
			out.CustomerID = sess.Customer.ID
		}
		if sess.Subscription != nil {
			out.SubscriptionID = sess.Subscription.ID
		}
	case models.EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return models.BillingEvent{}, fmt.Errorf("%w: subscription: %v", ErrInvalidPayload, err)
		}
		out.SubscriptionID = sub.ID
		if sub.Customer != nil {
			out.CustomerID = sub.Customer.ID
		}
		out.UserID = sub.Metadata["user_id"]
	}
	return out, nil
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}
