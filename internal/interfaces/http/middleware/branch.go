package middleware

import (
	"net/http"

	"github.com/adisyon/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Branch context keys
const (
	BranchIDKey     = "branch_id"
	BranchHeaderKey = "X-Branch-ID"
)

// BranchMiddlewareConfig holds configuration for the branch middleware
type BranchMiddlewareConfig struct {
	// SkipPaths are paths served without branch context (health checks)
	SkipPaths []string
}

// DefaultBranchConfig returns default branch middleware configuration
func DefaultBranchConfig() BranchMiddlewareConfig {
	return BranchMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready"},
	}
}

// BranchMiddleware extracts the branch (şube) ID from the X-Branch-ID header.
// Every tenant-facing route requires a valid branch UUID; requests without
// one are rejected before reaching the handlers.
func BranchMiddleware() gin.HandlerFunc {
	return BranchMiddlewareWithConfig(DefaultBranchConfig())
}

// BranchMiddlewareWithConfig returns branch middleware with custom configuration
func BranchMiddlewareWithConfig(cfg BranchMiddlewareConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		raw := c.GetHeader(BranchHeaderKey)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "X-Branch-ID header is required"))
			return
		}
		branchID, err := uuid.Parse(raw)
		if err != nil || branchID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "X-Branch-ID must be a valid UUID"))
			return
		}

		c.Set(BranchIDKey, branchID)
		c.Next()
	}
}

// GetBranchID returns the branch ID extracted by BranchMiddleware
func GetBranchID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(BranchIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
