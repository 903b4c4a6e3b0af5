package binding

import (
	"context"
	"time"

	"lexora/internal/application/binding/dto"
)

// BindingService defines the application operations the handler depends on.
type BindingService interface {
	IssueBindingCode(ctx context.Context, tenantID string, ttl time.Duration) (*dto.BindingCodeResponse, error)
	CompleteBinding(ctx context.Context, code, externalID, displayName string) (*dto.BindingResultResponse, error)
	Unbind(ctx context.Context, externalID string) (*dto.UnbindResponse, error)
	ChangePlan(ctx context.Context, tenantID, newPlanKey string) (*dto.PlanChangeResponse, error)
	Enlist(ctx context.Context, tenantID, externalID, displayName string) (*dto.WaitlistResponse, error)
	QuerySeatStatus(ctx context.Context, tenantID string) (*dto.SeatStatusResponse, error)
}

// ConsumeLimiter guards the webhook bind endpoint against code brute force.
type ConsumeLimiter interface {
	Check(ctx context.Context, externalID string) error
	RecordFailure(ctx context.Context, externalID string)
	Clear(ctx context.Context, externalID string) error
}

// noopLimiter is used when no Redis client is configured.
type noopLimiter struct{}

func (noopLimiter) Check(ctx context.Context, externalID string) error  { return nil }
func (noopLimiter) RecordFailure(ctx context.Context, externalID string) {}
func (noopLimiter) Clear(ctx context.Context, externalID string) error  { return nil }
