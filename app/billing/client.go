// Package billing wraps the Stripe API calls and webhook decoding used for
// Pro subscriptions.
package billing

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

var ErrNotConfigured = errors.New("stripe not configured")

// Client is a Stripe client bound to one secret key and Pro price.
type Client struct {
	api     *client.API
	priceID string
}

func New(secretKey, priceID string) (*Client, error) {
	return NewWithBackends(secretKey, priceID, nil)
}

// NewWithBackends lets tests route API calls to a local server.
func NewWithBackends(secretKey, priceID string, backends *stripe.Backends) (*Client, error) {
	if secretKey == "" {
		return nil, ErrNotConfigured
	}
	api := &client.API{}
	api.Init(secretKey, backends)
	return &Client{api: api, priceID: priceID}, nil
}

// CreateCustomer creates a customer tagged with the user's id.
func (c *Client) CreateCustomer(ctx context.Context, email, userID string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Metadata: map[string]string{
			"user_id": userID,
		},
	}
	params.Context = ctx

	cust, err := c.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

type CheckoutParams struct {
	CustomerID string
	UserID     string
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID  string `json:"session_id"`
	URL string `json:"url"`
}

// CreateCheckoutSession starts a subscription checkout for the Pro price.
// The user id travels in metadata so the completion webhook can find the user.
func (c *Client) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:           stripe.String(p.CustomerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(c.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		Metadata: map[string]string{
			"user_id": p.UserID,
		},
	}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	sess, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// ErrorMessage returns the Stripe message for API errors and err.Error() otherwise.
func ErrorMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return err.Error()
}
