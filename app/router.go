package app

import (
	"time"

	"example/seo-score-api/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var publicPaths = map[string]bool{
	"/":                true,
	"/health":          true,
	"/billing/webhook": true,
}

// Router builds the HTTP router shared by the local server and Lambda.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	router.Use(auth.Middleware(s.verifier, auth.MiddlewareConfig{
		Mode:        s.authMode,
		PublicPaths: publicPaths,
		Logger:      s.logger,
	}))

	router.GET("/", s.Root)
	router.GET("/health", s.Health)
	router.POST("/analyze", s.Analyze)
	router.GET("/history", s.History)
	router.GET("/report/:id", s.Report)
	router.GET("/subscription", s.Subscription)
	router.POST("/billing/create-checkout-session", s.CreateCheckoutSession)
	router.POST("/billing/webhook", s.BillingWebhook)
	router.POST("/billing/portal", s.CreatePortalSession)

	return router
}
