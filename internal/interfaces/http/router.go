package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	bindingApp "lexora/internal/application/binding"
	"lexora/internal/infrastructure/auth"
	"lexora/internal/infrastructure/config"
	"lexora/internal/infrastructure/metrics"
	bindingHandlers "lexora/internal/interfaces/http/handlers/binding"
	"lexora/internal/interfaces/http/middleware"
	"lexora/internal/interfaces/http/routes"
	"lexora/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine         *gin.Engine
	bindingHandler *bindingHandlers.Handler
	authMiddleware *middleware.AuthMiddleware
	webhookSecret  string
	logger         logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies. limiter may be
// nil when Redis is not configured.
func NewRouter(
	bindingService *bindingApp.Service,
	limiter bindingHandlers.ConsumeLimiter,
	cfg *config.Config,
	log logger.Interface,
) *Router {
	engine := gin.New()

	jwtSvc := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)

	return &Router{
		engine:         engine,
		bindingHandler: bindingHandlers.NewHandler(bindingService, limiter, log.Named("binding.handler")),
		authMiddleware: middleware.NewAuthMiddleware(jwtSvc, log.Named("auth")),
		webhookSecret:  cfg.Auth.WebhookSecret,
		logger:         log,
	}
}

// SetupRoutes configures global middleware and all route groups.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.Logger(r.logger.Named("http")))
	r.engine.Use(metrics.Middleware())

	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.engine.GET("/metrics", metrics.Handler())

	routes.SetupBindingRoutes(r.engine, &routes.BindingRouteConfig{
		Handler:        r.bindingHandler,
		AuthMiddleware: r.authMiddleware,
		WebhookSecret:  r.webhookSecret,
	})
}

// GetEngine returns the underlying gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
