// Package auth verifies Clerk session JWTs via JWKS and validates issuer,
// audience and authorized party.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultLeeway = 30 * time.Second
)

// Verifier validates Clerk session tokens against a JWKS endpoint.
type Verifier struct {
	issuer            string
	audience          string
	authorizedParties []string
	keyfunc           keyfunc.Keyfunc
	parser            *jwt.Parser
}

type VerifierConfig struct {
	Issuer string
	// Audience is checked only when set. Clerk session tokens carry none by default.
	Audience string
	// JWKSURL defaults to <issuer>/.well-known/jwks.json.
	JWKSURL string
	// AuthorizedParties restricts the azp claim when non-empty.
	AuthorizedParties []string
}

// NewVerifier builds a verifier and starts background JWKS refresh.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	issuer := normalizeIssuer(cfg.Issuer)
	if issuer == "" {
		return nil, errors.New("issuer must be set")
	}
	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		jwksURL = issuer + "/.well-known/jwks.json"
	}

	keyProvider, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to init JWKS keyfunc: %w", err)
	}

	opts := []jwt.ParserOption{
		jwt.WithIssuer(issuer),
		jwt.WithLeeway(defaultLeeway),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name, jwt.SigningMethodRS512.Name, jwt.SigningMethodRS384.Name}),
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &Verifier{
		issuer:            issuer,
		audience:          cfg.Audience,
		authorizedParties: cfg.AuthorizedParties,
		keyfunc:           keyProvider,
		parser:            jwt.NewParser(opts...),
	}, nil
}

// Verify parses and validates a JWT, returning extracted claims.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := v.parser.Parse(tokenString, v.keyfunc.Keyfunc)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	claims := &Claims{
		Subject:         readString(mapClaims, "sub"),
		Issuer:          readString(mapClaims, "iss"),
		Audience:        readAudience(mapClaims["aud"]),
		ExpiresAt:       readExpiry(mapClaims["exp"]),
		SessionID:       readString(mapClaims, "sid"),
		AuthorizedParty: readString(mapClaims, "azp"),
		Raw:             mapClaims,
	}
	if claims.Subject == "" {
		return nil, errors.New("token missing sub")
	}
	if len(v.authorizedParties) > 0 && claims.AuthorizedParty != "" &&
		!slices.Contains(v.authorizedParties, claims.AuthorizedParty) {
		return nil, fmt.Errorf("unexpected authorized party %q", claims.AuthorizedParty)
	}
	return claims, nil
}

func normalizeIssuer(issuer string) string {
	return strings.TrimRight(strings.TrimSpace(issuer), "/")
}

func readString(claims jwt.MapClaims, key string) string {
	if s, ok := claims[key].(string); ok {
		return s
	}
	return ""
}

func readAudience(raw any) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	default:
		return nil
	}
}

func readExpiry(raw any) time.Time {
	switch v := raw.(type) {
	case float64:
		return time.Unix(int64(v), 0)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return time.Unix(i, 0)
		}
	case int64:
		return time.Unix(v, 0)
	}
	return time.Time{}
}
