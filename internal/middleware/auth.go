package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/session"
)

// TokenClaims is what a validated session token asserts.
type TokenClaims struct {
	UserID  string
	TokenID string
}

// TokenValidator is an interface for validating session tokens.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

// AuthMiddleware rejects requests without a valid bearer token and places
// the principal on both the gin context and the request context, where the
// session provider picks it up.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed authorization header"})
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		setPrincipal(c, claims.UserID)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the principal when a valid token is
// present and lets the request through as a guest otherwise. Read routes
// use this so favorite state can be shown to signed-in users.
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := validator.ValidateToken(c.Request.Context(), token); err == nil {
				setPrincipal(c, claims.UserID)
			}
		}
		c.Next()
	}
}

func setPrincipal(c *gin.Context, principalID string) {
	c.Set("user_id", principalID)
	c.Request = c.Request.WithContext(session.WithPrincipal(c.Request.Context(), principalID))
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
