package routes

import (
	"github.com/gin-gonic/gin"

	bindingHandlers "lexora/internal/interfaces/http/handlers/binding"
	"lexora/internal/interfaces/http/middleware"
)

// BindingRouteConfig holds the configuration for binding routes
type BindingRouteConfig struct {
	Handler        *bindingHandlers.Handler
	AuthMiddleware *middleware.AuthMiddleware
	WebhookSecret  string
}

// SetupBindingRoutes configures binding-related routes
func SetupBindingRoutes(engine *gin.Engine, config *BindingRouteConfig) {
	// Public webhook endpoint (the LINE bot calls this)
	webhooks := engine.Group("/api/webhooks")
	webhooks.Use(middleware.WebhookSecret(config.WebhookSecret))
	{
		webhooks.POST("/line/bind", config.Handler.CompleteBinding)
	}

	// Tenant-scoped endpoints
	tenants := engine.Group("/api/tenants")
	tenants.Use(config.AuthMiddleware.RequireAuth(), config.AuthMiddleware.RequireTenantScope())
	{
		tenants.POST("/:tenant_id/binding-codes", config.Handler.IssueBindingCode)
		tenants.POST("/:tenant_id/waitlist", config.Handler.Enlist)
		tenants.GET("/:tenant_id/seats", config.Handler.SeatStatus)
		tenants.PUT("/:tenant_id/plan", config.Handler.ChangePlan)
	}

	// Binding management requires auth but is not tenant-scoped by path;
	// the ledger row itself identifies the tenant.
	bindings := engine.Group("/api/bindings")
	bindings.Use(config.AuthMiddleware.RequireAuth())
	{
		bindings.DELETE("/:external_id", config.Handler.Unbind)
	}
}
