package usecases

import (
	"context"
	"time"

	"lexora/internal/application/binding/dto"
	"lexora/internal/domain/binding"
	"lexora/internal/domain/plan"
	"lexora/internal/domain/tenant"
	"lexora/internal/shared/biztime"
	"lexora/internal/shared/lock"
	"lexora/internal/shared/logger"
)

// OnPlanUpgradedUseCase is the hook run after a tenant's plan changes.
// It promotes waitlisted identities oldest-first until the new seat limit is
// reached or no candidates remain.
type OnPlanUpgradedUseCase struct {
	ledger  binding.LedgerRepository
	tenants tenant.Repository
	locks   *lock.KeyedMutex
	tx      TxRunner
	logger  logger.Interface
	now     func() time.Time
}

// NewOnPlanUpgradedUseCase creates a new OnPlanUpgradedUseCase
func NewOnPlanUpgradedUseCase(
	ledger binding.LedgerRepository,
	tenants tenant.Repository,
	locks *lock.KeyedMutex,
	tx TxRunner,
	logger logger.Interface,
) *OnPlanUpgradedUseCase {
	return &OnPlanUpgradedUseCase{
		ledger:  ledger,
		tenants: tenants,
		locks:   locks,
		tx:      tx,
		logger:  logger,
		now:     biztime.NowUTC,
	}
}

// Execute promotes into any seats freed by the plan change and returns the
// promoted external IDs in promotion order.
func (uc *OnPlanUpgradedUseCase) Execute(ctx context.Context, tenantID string) ([]string, error) {
	t, err := uc.tenants.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	uc.locks.Lock(tenantID)
	defer uc.locks.Unlock(tenantID)

	var promoted []string
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		p := &promoter{ledger: uc.ledger, logger: uc.logger}
		promoted, err = p.promoteUntilFull(ctx, t, uc.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(promoted) > 0 {
		uc.logger.Infow("plan upgrade promoted waitlisted identities",
			"tenant_id", tenantID,
			"count", len(promoted),
		)
	}

	return promoted, nil
}

// ChangePlanUseCase mutates a tenant's plan and runs the promotion hook in
// one request.
type ChangePlanUseCase struct {
	tenants  tenant.Repository
	upgraded *OnPlanUpgradedUseCase
	logger   logger.Interface
}

// NewChangePlanUseCase creates a new ChangePlanUseCase
func NewChangePlanUseCase(
	tenants tenant.Repository,
	upgraded *OnPlanUpgradedUseCase,
	logger logger.Interface,
) *ChangePlanUseCase {
	return &ChangePlanUseCase{
		tenants:  tenants,
		upgraded: upgraded,
		logger:   logger,
	}
}

// Execute sets the plan and promotes into any newly freed seats. Unknown
// plan keys are rejected; resolving them to the zero-seat fallback on a
// write path would silently strip a tenant's seats.
func (uc *ChangePlanUseCase) Execute(ctx context.Context, tenantID, newPlanKey string) (*dto.PlanChangeResponse, error) {
	if !plan.Known(newPlanKey) {
		return nil, plan.ErrUnknownPlan
	}

	t, err := uc.tenants.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	t.SetPlan(newPlanKey)
	if err := uc.tenants.Update(ctx, t); err != nil {
		return nil, err
	}

	uc.logger.Infow("tenant plan changed",
		"tenant_id", tenantID,
		"plan_key", t.PlanKey(),
	)

	promoted, err := uc.upgraded.Execute(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if promoted == nil {
		promoted = []string{}
	}

	return &dto.PlanChangeResponse{
		TenantID: tenantID,
		PlanKey:  t.PlanKey(),
		Promoted: promoted,
	}, nil
}
