// Package binding exposes the seat-allocation and identity-binding HTTP API.
package binding

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "lexora/internal/domain/binding"
	"lexora/internal/domain/plan"
	"lexora/internal/domain/tenant"
	"lexora/internal/infrastructure/cache"
	"lexora/internal/infrastructure/metrics"
	apperrors "lexora/internal/shared/errors"
	"lexora/internal/shared/logger"
	"lexora/internal/shared/utils"
)

// Handler handles binding-related HTTP requests.
type Handler struct {
	service BindingService
	limiter ConsumeLimiter
	logger  logger.Interface
}

// NewHandler creates a new binding handler. limiter may be nil when no Redis
// client is configured; brute-force protection is then disabled.
func NewHandler(service BindingService, limiter ConsumeLimiter, logger logger.Interface) *Handler {
	if limiter == nil {
		limiter = noopLimiter{}
	}
	return &Handler{
		service: service,
		limiter: limiter,
		logger:  logger,
	}
}

type issueCodeRequest struct {
	TTLMinutes int `json:"ttl_minutes" binding:"omitempty,min=1,max=1440"`
}

// IssueBindingCode handles POST /api/tenants/:tenant_id/binding-codes
func (h *Handler) IssueBindingCode(c *gin.Context) {
	tenantID := c.Param("tenant_id")
	if err := utils.ValidateTenantID(tenantID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req issueCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request format")
		return
	}

	result, err := h.service.IssueBindingCode(c.Request.Context(), tenantID, time.Duration(req.TTLMinutes)*time.Minute)
	if err != nil {
		utils.ErrorResponseWithError(c, mapDomainError(err))
		return
	}

	metrics.BindingCodesIssuedTotal.Inc()
	utils.CreatedResponse(c, result, "binding code issued")
}

type completeBindingRequest struct {
	Code        string `json:"code" binding:"required"`
	ExternalID  string `json:"external_id" binding:"required,max=100"`
	DisplayName string `json:"display_name" binding:"omitempty,max=200"`
}

// CompleteBinding handles POST /api/webhooks/line/bind
func (h *Handler) CompleteBinding(c *gin.Context) {
	var req completeBindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request format")
		return
	}

	ctx := c.Request.Context()
	if err := h.limiter.Check(ctx, req.ExternalID); err != nil {
		if errors.Is(err, cache.ErrConsumeRateLimited) {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many failed attempts, try again later")
			return
		}
		h.logger.Warnw("rate limit check failed, allowing request", "error", err)
	}

	result, err := h.service.CompleteBinding(ctx, req.Code, req.ExternalID, req.DisplayName)
	if err != nil {
		if errors.Is(err, domain.ErrCodeNotFound) || errors.Is(err, domain.ErrCodeExpired) {
			h.limiter.RecordFailure(ctx, req.ExternalID)
		}
		utils.ErrorResponseWithError(c, mapDomainError(err))
		return
	}

	if err := h.limiter.Clear(ctx, req.ExternalID); err != nil {
		h.logger.Warnw("failed to clear rate limit counter", "external_id", req.ExternalID, "error", err)
	}

	metrics.BindingsTotal.WithLabelValues(result.Outcome).Inc()
	utils.OKResponse(c, result)
}

type enlistRequest struct {
	ExternalID  string `json:"external_id" binding:"required,max=100"`
	DisplayName string `json:"display_name" binding:"omitempty,max=200"`
}

// Enlist handles POST /api/tenants/:tenant_id/waitlist
func (h *Handler) Enlist(c *gin.Context) {
	tenantID := c.Param("tenant_id")
	if err := utils.ValidateTenantID(tenantID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req enlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request format")
		return
	}

	result, err := h.service.Enlist(c.Request.Context(), tenantID, req.ExternalID, req.DisplayName)
	if err != nil {
		utils.ErrorResponseWithError(c, mapDomainError(err))
		return
	}

	utils.CreatedResponse(c, result, "identity waitlisted")
}

// Unbind handles DELETE /api/bindings/:external_id
func (h *Handler) Unbind(c *gin.Context) {
	externalID := c.Param("external_id")
	if err := utils.ValidateExternalID(externalID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.Unbind(c.Request.Context(), externalID)
	if err != nil {
		utils.ErrorResponseWithError(c, mapDomainError(err))
		return
	}

	metrics.UnbindsTotal.Inc()
	if result.PromotedExternalID != nil {
		metrics.PromotionsTotal.WithLabelValues("unbind").Inc()
	}
	utils.OKResponse(c, result)
}

// SeatStatus handles GET /api/tenants/:tenant_id/seats
func (h *Handler) SeatStatus(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	result, err := h.service.QuerySeatStatus(c.Request.Context(), tenantID)
	if err != nil {
		utils.ErrorResponseWithError(c, mapDomainError(err))
		return
	}

	utils.OKResponse(c, result)
}

type changePlanRequest struct {
	PlanKey string `json:"plan_key" binding:"required,max=50"`
}

// ChangePlan handles PUT /api/tenants/:tenant_id/plan
func (h *Handler) ChangePlan(c *gin.Context) {
	tenantID := c.Param("tenant_id")
	if err := utils.ValidateTenantID(tenantID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req changePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request format")
		return
	}

	result, err := h.service.ChangePlan(c.Request.Context(), tenantID, req.PlanKey)
	if err != nil {
		utils.ErrorResponseWithError(c, mapDomainError(err))
		return
	}

	for range result.Promoted {
		metrics.PromotionsTotal.WithLabelValues("plan_change").Inc()
	}
	utils.OKResponse(c, result)
}

// mapDomainError translates domain sentinels into AppErrors with a
// machine-readable kind. Unknown errors pass through and surface as 500.
func mapDomainError(err error) error {
	var planLimitErr *domain.PlanLimitError
	if errors.As(err, &planLimitErr) {
		return apperrors.NewConflictError(
			"plan seat limit exceeded",
			fmt.Sprintf("seats %d/%d", planLimitErr.SeatsUsed, planLimitErr.SeatsLimit),
		).WithKind("PlanLimitExceeded")
	}

	switch {
	case errors.Is(err, tenant.ErrTenantNotFound):
		return apperrors.NewNotFoundError("tenant not found").WithKind("TenantNotFound")
	case errors.Is(err, tenant.ErrTenantInactive):
		return apperrors.NewForbiddenError("tenant is not accepting bindings").WithKind("TenantInactive")
	case errors.Is(err, domain.ErrCodeNotFound):
		return apperrors.NewNotFoundError("binding code not found").WithKind("CodeNotFound")
	case errors.Is(err, domain.ErrCodeExpired):
		return apperrors.NewBadRequestError("binding code expired").WithKind("CodeExpired")
	case errors.Is(err, domain.ErrCodeAlreadyUsed):
		return apperrors.NewConflictError("binding code already used").WithKind("CodeAlreadyUsed")
	case errors.Is(err, domain.ErrIdentityBoundElsewhere):
		return apperrors.NewConflictError("identity already bound to another tenant").WithKind("IdentityAlreadyBoundElsewhere")
	case errors.Is(err, domain.ErrNotBound):
		return apperrors.NewNotFoundError("identity is not bound").WithKind("NotBound")
	case errors.Is(err, domain.ErrBindingNotFound):
		return apperrors.NewNotFoundError("identity binding not found").WithKind("NotBound")
	case errors.Is(err, plan.ErrUnknownPlan):
		return apperrors.NewBadRequestError("unknown plan key").WithKind("UnknownPlan")
	default:
		return err
	}
}
