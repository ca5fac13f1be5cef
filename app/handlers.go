package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"example/seo-score-api/app/ledger"
	"example/seo-score-api/app/models"
	"example/seo-score-api/app/store"
	"example/seo-score-api/auth"

	"github.com/gin-gonic/gin"
)

const (
	quotaExceededDetail = "Free plan limit reached. Upgrade to Pro for unlimited analyses."
	reportNotFound      = "Report not found"
	missingUserID       = "user_id is required"
)

func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "SEO Score Analyzer Pro API",
		"status":  "running",
	})
}

// Health reports which optional integrations are configured.
func (s *Server) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	storeStatus := "connected"
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("store ping failed", "err", err)
		storeStatus = "unreachable"
	}

	openaiStatus := "not configured"
	if s.analyzer.Configured() {
		openaiStatus = "connected"
	}
	stripeStatus := "not configured"
	if s.billing != nil {
		stripeStatus = "configured"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"openai":   openaiStatus,
		"provider": s.analyzer.ProviderName(),
		"store":    storeStatus,
		"stripe":   stripeStatus,
	})
}

// resolveUserID picks the verified subject, or the caller-supplied id when the
// auth mode allows it. It writes a 400 and returns false when neither exists.
func (s *Server) resolveUserID(c *gin.Context, supplied string) (string, bool) {
	userID := auth.ResolveUserID(c.Request.Context(), supplied)
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": missingUserID})
		return "", false
	}
	return userID, true
}

func (s *Server) Analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request: " + err.Error()})
		return
	}
	userID, ok := s.resolveUserID(c, req.UserID)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	reservation, err := s.ledger.AuthorizeAndRecord(ctx, userID)
	if err != nil {
		var qe *ledger.QuotaError
		if errors.As(err, &qe) {
			s.logger.Info("analysis rejected by quota", "user_id", userID, "used", qe.Used, "limit", qe.Limit)
			c.JSON(http.StatusForbidden, gin.H{"detail": quotaExceededDetail})
			return
		}
		s.logger.Error("authorize analysis failed", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to authorize analysis"})
		return
	}

	analysis := s.analyzer.Analyze(ctx, req.URL)

	resp := models.AnalyzeResponse{
		Score:           analysis.Score,
		Issues:          analysis.Issues,
		Recommendations: analysis.Recommendations,
		Performance:     analysis.Performance,
	}

	report := models.NewReport(userID, req.URL, analysis, s.now().UTC())
	if err := s.store.InsertReport(ctx, &report); err != nil {
		s.logger.Error("saving report failed", "user_id", userID, "url", req.URL, "err", err)
		s.ledger.Release(ctx, reservation)
	} else {
		resp.ID = &report.ID
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) History(c *gin.Context) {
	userID, ok := s.resolveUserID(c, c.Query("user_id"))
	if !ok {
		return
	}

	reports, err := s.store.ListReports(c.Request.Context(), userID, store.HistoryLimit)
	if err != nil {
		s.logger.Error("fetching history failed", "user_id", userID, "err", err)
		reports = []models.Report{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (s *Server) Report(c *gin.Context) {
	userID, ok := s.resolveUserID(c, c.Query("user_id"))
	if !ok {
		return
	}

	report, err := s.store.GetReport(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		s.logger.Error("fetching report failed", "report_id", c.Param("id"), "err", err)
	}
	if err != nil || report == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": reportNotFound})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) Subscription(c *gin.Context) {
	userID, ok := s.resolveUserID(c, c.Query("user_id"))
	if !ok {
		return
	}
	sub := s.ledger.GetOrCreate(c.Request.Context(), userID)
	c.JSON(http.StatusOK, sub.View())
}
