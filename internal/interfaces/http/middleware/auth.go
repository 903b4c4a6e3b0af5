package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lexora/internal/infrastructure/auth"
	"lexora/internal/shared/logger"
	"lexora/internal/shared/utils"
)

const (
	ContextKeyTenantID = "tenant_id"
	ContextKeyRole     = "auth_role"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// RequireAuth verifies the bearer token and stores the tenant scope on the
// request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextKeyTenantID, claims.TenantID)
		c.Set(ContextKeyRole, string(claims.Role))

		c.Next()
	}
}

// RequireTenantScope rejects requests whose :tenant_id path parameter does
// not match the token's tenant. Admin tokens pass for any tenant.
func (m *AuthMiddleware) RequireTenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextKeyRole) == string(auth.RoleAdmin) {
			c.Next()
			return
		}

		pathTenant := c.Param("tenant_id")
		if pathTenant != "" && pathTenant != c.GetString(ContextKeyTenantID) {
			utils.ErrorResponse(c, http.StatusForbidden, "token is not scoped to this tenant")
			c.Abort()
			return
		}

		c.Next()
	}
}
