package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medibooks/backend/internal/infrastructure/auth"
	"github.com/medibooks/backend/internal/interfaces/http/dto"
)

// Auth context keys
const (
	ActorIDKey     = "actor_id"
	ActorNameKey   = "actor_name"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// AuthConfig holds configuration for the JWT auth middleware
type AuthConfig struct {
	JWTService *auth.JWTService
	SkipPaths  []string
}

// DefaultAuthConfig returns the default auth middleware configuration
func DefaultAuthConfig(jwtService *auth.JWTService) AuthConfig {
	return AuthConfig{
		JWTService: jwtService,
		SkipPaths:  []string{"/health", "/ready"},
	}
}

// AuthMiddleware verifies the bearer token and stores the actor identity in
// the request context
func AuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return AuthMiddlewareWithConfig(DefaultAuthConfig(jwtService))
}

// AuthMiddlewareWithConfig creates the auth middleware with custom config
func AuthMiddlewareWithConfig(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" || !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "Missing or malformed authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(strings.TrimPrefix(header, BearerPrefix))
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ActorIDKey, claims.ActorID)
		c.Set(ActorNameKey, claims.Username)
		c.Next()
	}
}

// GetActorID returns the authenticated actor ID from the context
func GetActorID(c *gin.Context) string {
	return c.GetString(ActorIDKey)
}

func abortUnauthorized(c *gin.Context, message string) {
	requestID := c.GetString(RequestIDHeaderKey)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, requestID))
}
