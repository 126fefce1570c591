package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibooks/backend/internal/infrastructure/logger"
	"github.com/medibooks/backend/internal/interfaces/http/dto"
)

// Tenant context keys
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantConfig holds configuration for the tenant middleware
type TenantConfig struct {
	SkipPaths []string
}

// DefaultTenantConfig returns the default tenant middleware configuration
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		SkipPaths: []string{"/health", "/ready"},
	}
}

// TenantMiddleware requires a valid X-Tenant-ID header on every request and
// stores the parsed tenant ID in both the gin and request contexts. Tenant
// scoping never comes from the token; one operator account can work across
// pharmacies.
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig creates the tenant middleware with custom config
func TenantMiddlewareWithConfig(cfg TenantConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		header := c.GetHeader(TenantHeaderKey)
		if header == "" {
			abortTenantError(c, "Missing X-Tenant-ID header")
			return
		}

		tenantID, err := uuid.Parse(header)
		if err != nil || tenantID == uuid.Nil {
			abortTenantError(c, "Invalid tenant ID format")
			return
		}

		c.Set(TenantIDKey, tenantID)

		ctx, _ := logger.WithTenantID(c.Request.Context(), logger.FromContext(c.Request.Context()), tenantID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetTenantID returns the tenant ID stored by TenantMiddleware
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(TenantIDKey)
	if !exists {
		return uuid.Nil, false
	}
	tenantID, ok := value.(uuid.UUID)
	return tenantID, ok
}

func abortTenantError(c *gin.Context, message string) {
	requestID := c.GetString(RequestIDHeaderKey)
	c.AbortWithStatusJSON(http.StatusBadRequest,
		dto.NewErrorResponse(dto.ErrCodeBadRequest, message, requestID))
}
