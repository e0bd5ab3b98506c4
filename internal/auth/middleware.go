package auth

import (
	"strings"

	"github.com/GenturixHub/genturix-alerts/internal/errors"
	"github.com/gin-gonic/gin"
)

// TokenValidator verifies a bearer token and returns the caller's identity.
type TokenValidator interface {
	ValidateToken(tokenString string) (string, error)
}

// contextKey avoids collisions in the gin context.
type contextKey string

// CallerKey is the gin context key for the authenticated caller identity.
const CallerKey contextKey = "caller"

type Middleware struct {
	validator TokenValidator
}

// NewMiddleware creates an auth middleware around a token validator.
func NewMiddleware(validator TokenValidator) *Middleware {
	return &Middleware{validator: validator}
}

// RequireAuth validates the Authorization bearer token and attaches the caller
// identity to the gin context.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.AbortWithUnauthorized(c, "Authorization header is required", nil)
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			errors.AbortWithUnauthorized(c, "Authorization header must be a Bearer token", nil)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			errors.AbortWithUnauthorized(c, "Bearer token is empty", nil)
			return
		}

		caller, err := m.validator.ValidateToken(token)
		if err != nil {
			errors.AbortWithUnauthorized(c, "Invalid or expired token", nil)
			return
		}

		c.Set(string(CallerKey), caller)
		c.Next()
	}
}

// GetCaller extracts the authenticated caller identity from the gin context.
func GetCaller(c *gin.Context) (string, bool) {
	caller, exists := c.Get(string(CallerKey))
	if !exists {
		return "", false
	}

	id, ok := caller.(string)
	return id, ok
}
