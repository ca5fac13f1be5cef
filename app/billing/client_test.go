package billing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stripe/stripe-go/v79"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	c, err := NewWithBackends("sk_test_123", "price_pro_monthly", &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})
	if err != nil {
		t.Fatalf("NewWithBackends: %v", err)
	}
	return c
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New("", "price"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}

func TestCreateCustomer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/customers" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("metadata[user_id]"); got != "user_1" {
			t.Errorf("metadata user_id = %q", got)
		}
		if got := r.PostForm.Get("email"); got != "a@example.com" {
			t.Errorf("email = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cus_new", "object": "customer"}`))
	})

	id, err := c.CreateCustomer(context.Background(), "a@example.com", "user_1")
	if err != nil || id != "cus_new" {
		t.Fatalf("CreateCustomer = %q, %v", id, err)
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = r.ParseForm()
		checks := map[string]string{
			"mode":                    "subscription",
			"customer":                "cus_1",
			"line_items[0][price]":    "price_pro_monthly",
			"line_items[0][quantity]": "1",
			"metadata[user_id]":       "user_1",
			"success_url":             "https://app.test/ok",
			"cancel_url":              "https://app.test/cancel",
		}
		for key, want := range checks {
			if got := r.PostForm.Get(key); got != want {
				t.Errorf("%s = %q, want %q", key, got, want)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cs_1", "object": "checkout.session", "url": "https://checkout.stripe.test/cs_1"}`))
	})

	sess, err := c.CreateCheckoutSession(context.Background(), CheckoutParams{
		CustomerID: "cus_1",
		UserID:     "user_1",
		SuccessURL: "https://app.test/ok",
		CancelURL:  "https://app.test/cancel",
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if sess.ID != "cs_1" || sess.URL != "https://checkout.stripe.test/cs_1" {
		t.Fatalf("session = %+v", sess)
	}
}

func TestCreatePortalSessionError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "No such customer: 'cus_gone'"}}`))
	})

	_, err := c.CreatePortalSession(context.Background(), "cus_gone", "https://app.test")
	if err == nil {
		t.Fatal("expected error")
	}
	if msg := ErrorMessage(err); msg != "No such customer: 'cus_gone'" {
		t.Fatalf("ErrorMessage = %q", msg)
	}
}
