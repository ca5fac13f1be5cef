// Package auth provides Gin middleware that resolves the caller identity.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Mode selects how requests without a verified identity are treated.
type Mode string

const (
	// ModeStrict rejects non-public requests without a valid bearer token.
	ModeStrict Mode = "strict"
	// ModePermissive lets such requests through so handlers fall back to the
	// caller-supplied user_id.
	ModePermissive Mode = "permissive"
)

// MiddlewareConfig controls auth enforcement behavior.
type MiddlewareConfig struct {
	Mode        Mode
	PublicPaths map[string]bool
	Logger      *slog.Logger
}

// Middleware verifies bearer tokens and injects claims into the request context.
func Middleware(verifier *Verifier, cfg MiddlewareConfig) gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	strict := cfg.Mode == ModeStrict

	return func(c *gin.Context) {
		if cfg.PublicPaths != nil && cfg.PublicPaths[c.FullPath()] {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if strict {
				logger.Info("auth failure: missing Authorization header", "path", c.Request.URL.Path)
				respondUnauthorized(c, "missing authorization header")
				return
			}
			c.Next()
			return
		}

		if verifier == nil {
			if strict {
				respondUnauthorized(c, "auth verifier not configured")
				return
			}
			c.Next()
			return
		}

		token, ok := extractBearerToken(authHeader)
		if !ok {
			logger.Warn("auth failure: malformed Authorization header", "path", c.Request.URL.Path)
			if strict {
				respondUnauthorized(c, "invalid authorization header")
				return
			}
			c.Next()
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			logger.Warn("auth failure: token invalid", "path", c.Request.URL.Path, "err", err)
			if strict {
				respondUnauthorized(c, "invalid token")
				return
			}
			c.Next()
			return
		}

		ctx := WithClaims(c.Request.Context(), claims)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractBearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"detail": message,
	})
}
