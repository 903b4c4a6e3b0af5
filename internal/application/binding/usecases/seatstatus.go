package usecases

import (
	"context"
	"fmt"

	"lexora/internal/application/binding/dto"
	"lexora/internal/domain/binding"
	"lexora/internal/domain/plan"
	"lexora/internal/domain/tenant"
	"lexora/internal/shared/logger"
)

// SeatStatusUseCase reports a tenant's live seat usage. The count is always
// recomputed from the ledger, never read from a cached counter.
type SeatStatusUseCase struct {
	tenants tenant.Repository
	ledger  binding.LedgerRepository
	logger  logger.Interface
}

// NewSeatStatusUseCase creates a new SeatStatusUseCase
func NewSeatStatusUseCase(
	tenants tenant.Repository,
	ledger binding.LedgerRepository,
	logger logger.Interface,
) *SeatStatusUseCase {
	return &SeatStatusUseCase{
		tenants: tenants,
		ledger:  ledger,
		logger:  logger,
	}
}

// Execute returns the seat status for the tenant.
func (uc *SeatStatusUseCase) Execute(ctx context.Context, tenantID string) (*dto.SeatStatusResponse, error) {
	t, err := uc.tenants.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	used, err := uc.ledger.ActiveCountForTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active seats: %w", err)
	}

	p := plan.Resolve(t.PlanKey())
	return &dto.SeatStatusResponse{
		TenantID:   t.TenantID(),
		PlanKey:    p.Key,
		PlanName:   p.DisplayName,
		SeatsUsed:  int(used),
		SeatsLimit: p.SeatLimit,
		Unlimited:  p.IsUnlimited(),
	}, nil
}
