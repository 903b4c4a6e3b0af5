package usecases

import (
	"context"
	"fmt"
	"time"

	"lexora/internal/domain/binding"
	"lexora/internal/domain/tenant"
	"lexora/internal/shared/biztime"
	"lexora/internal/shared/logger"
)

// IssueBindingCodeUseCase issues a short-lived single-use binding code for a
// tenant. The seat check here is an early rejection for UX; the authoritative
// check happens again at consumption time.
type IssueBindingCodeUseCase struct {
	tenants tenant.Repository
	ledger  binding.LedgerRepository
	codes   binding.CodeStore
	logger  logger.Interface
	now     func() time.Time
}

// NewIssueBindingCodeUseCase creates a new IssueBindingCodeUseCase
func NewIssueBindingCodeUseCase(
	tenants tenant.Repository,
	ledger binding.LedgerRepository,
	codes binding.CodeStore,
	logger logger.Interface,
) *IssueBindingCodeUseCase {
	return &IssueBindingCodeUseCase{
		tenants: tenants,
		ledger:  ledger,
		codes:   codes,
		logger:  logger,
		now:     biztime.NowUTC,
	}
}

// Execute issues a code for the tenant. A non-positive ttl selects the
// configured default.
func (uc *IssueBindingCodeUseCase) Execute(ctx context.Context, tenantID string, ttl time.Duration) (*binding.BindingCode, error) {
	t, err := uc.tenants.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !t.IsBindable() {
		return nil, tenant.ErrTenantInactive
	}

	used, err := uc.ledger.ActiveCountForTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active seats: %w", err)
	}
	limit := t.SeatLimit()
	if used >= int64(limit) {
		return nil, &binding.PlanLimitError{
			TenantID:   tenantID,
			SeatsUsed:  int(used),
			SeatsLimit: limit,
		}
	}

	code, err := uc.codes.Issue(ctx, tenantID, ttl, uc.now())
	if err != nil {
		return nil, fmt.Errorf("failed to issue binding code: %w", err)
	}

	uc.logger.Infow("binding code issued",
		"tenant_id", tenantID,
		"expires_at", code.ExpiresAt(),
	)

	return code, nil
}
