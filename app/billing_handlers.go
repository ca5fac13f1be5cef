package app

import (
	"errors"
	"io"
	"net/http"

	"example/seo-score-api/app/billing"
	"example/seo-score-api/app/models"

	"github.com/gin-gonic/gin"
)

const (
	maxWebhookBytes     = int64(65536)
	stripeNotConfigured = "Stripe not configured"
)

// CreateCheckoutSession starts a Stripe Checkout Session for the Pro plan.
func (s *Server) CreateCheckoutSession(c *gin.Context) {
	if s.billing == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": stripeNotConfigured})
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request: " + err.Error()})
		return
	}
	userID, ok := s.resolveUserID(c, req.UserID)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	customerID, err := s.ledger.EnsureBillingCustomer(ctx, userID, req.Email, s.billing)
	if err != nil {
		s.logger.Error("preparing billing customer failed", "user_id", userID, "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": billing.ErrorMessage(err)})
		return
	}

	sess, err := s.billing.CreateCheckoutSession(ctx, billing.CheckoutParams{
		CustomerID: customerID,
		UserID:     userID,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		s.logger.Error("stripe checkout session failed", "user_id", userID, "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": billing.ErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": sess.URL, "session_id": sess.ID})
}

// BillingWebhook receives Stripe events and applies plan transitions, either
// directly or through the billing queue.
func (s *Server) BillingWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		s.logger.Warn("stripe webhook read failed", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid payload"})
		return
	}

	ev, err := billing.ParseWebhook(body, c.GetHeader("Stripe-Signature"), s.webhookSecret)
	if err != nil {
		s.logger.Warn("stripe webhook rejected", "err", err)
		detail := "Invalid payload"
		if errors.Is(err, billing.ErrInvalidSignature) {
			detail = "Invalid signature"
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": detail})
		return
	}
	ctx := c.Request.Context()

	if s.events != nil && isLedgerEvent(ev.Type) {
		if err := s.events.Publish(ctx, ev); err != nil {
			s.logger.Error("publishing billing event failed", "event_id", ev.ID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to queue event"})
			return
		}
		s.logger.Info("billing event queued", "event_id", ev.ID, "event_type", string(ev.Type))
		c.JSON(http.StatusOK, gin.H{"status": "success"})
		return
	}

	if err := s.ledger.ApplyBillingEvent(ctx, ev); err != nil {
		s.logger.Error("applying billing event failed", "event_id", ev.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to apply event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// CreatePortalSession opens the Stripe customer portal for an existing customer.
func (s *Server) CreatePortalSession(c *gin.Context) {
	if s.billing == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": stripeNotConfigured})
		return
	}
	userID, ok := s.resolveUserID(c, c.Query("user_id"))
	if !ok {
		return
	}
	returnURL := c.Query("return_url")
	if returnURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "return_url is required"})
		return
	}
	ctx := c.Request.Context()

	sub := s.ledger.GetOrCreate(ctx, userID)
	if sub.StripeCustomerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No billing account found"})
		return
	}

	url, err := s.billing.CreatePortalSession(ctx, sub.StripeCustomerID, returnURL)
	if err != nil {
		s.logger.Error("stripe portal session failed", "user_id", userID, "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": billing.ErrorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func isLedgerEvent(t models.BillingEventType) bool {
	return t == models.EventCheckoutCompleted || t == models.EventSubscriptionDeleted
}
