package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medibooks/backend/internal/infrastructure/cache"
	"github.com/medibooks/backend/internal/interfaces/http/dto"
)

// IdempotencyHeaderKey is the header carrying the client's idempotency key
const IdempotencyHeaderKey = "Idempotency-Key"

// idempotencyTTL is how long a processed key stays recorded
const idempotencyTTL = 24 * time.Hour

// IdempotencyMiddleware rejects a mutating request whose Idempotency-Key was
// already processed for the same tenant. The key is optional; requests
// without one are never deduplicated.
func IdempotencyMiddleware(store cache.IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyHeaderKey)
		if key == "" {
			c.Next()
			return
		}

		tenantID, ok := GetTenantID(c)
		if !ok {
			c.Next()
			return
		}

		isNew, err := store.MarkProcessed(c.Request.Context(), tenantID, key, idempotencyTTL)
		if err != nil {
			// The store being unreachable must not block writes
			c.Next()
			return
		}
		if !isNew {
			requestID := c.GetString(RequestIDHeaderKey)
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponse(dto.ErrCodeDuplicateRequest, "Request with this idempotency key was already processed", requestID))
			return
		}

		c.Next()
	}
}
