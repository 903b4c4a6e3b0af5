package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lexora/internal/application/binding/dto"
	"lexora/internal/domain/binding"
	"lexora/internal/domain/tenant"
	"lexora/internal/shared/biztime"
	"lexora/internal/shared/lock"
	"lexora/internal/shared/logger"
)

// UnbindUseCase frees an identity's seat and promotes the oldest waitlisted
// candidate into it.
type UnbindUseCase struct {
	ledger  binding.LedgerRepository
	tenants tenant.Repository
	locks   *lock.KeyedMutex
	tx      TxRunner
	logger  logger.Interface
	now     func() time.Time
}

// NewUnbindUseCase creates a new UnbindUseCase
func NewUnbindUseCase(
	ledger binding.LedgerRepository,
	tenants tenant.Repository,
	locks *lock.KeyedMutex,
	tx TxRunner,
	logger logger.Interface,
) *UnbindUseCase {
	return &UnbindUseCase{
		ledger:  ledger,
		tenants: tenants,
		locks:   locks,
		tx:      tx,
		logger:  logger,
		now:     biztime.NowUTC,
	}
}

// Execute deactivates the identity's active binding. The row is kept for
// history; only its status changes. Promotion runs in the same per-tenant
// critical section so a concurrent bind cannot steal the freed seat between
// the deactivation and the promotion check.
func (uc *UnbindUseCase) Execute(ctx context.Context, externalID string) (*dto.UnbindResponse, error) {
	row, err := uc.ledger.FindActiveByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, binding.ErrBindingNotFound) {
			return nil, binding.ErrNotBound
		}
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}
	tenantID := row.TenantID()

	uc.locks.Lock(tenantID)
	defer uc.locks.Unlock(tenantID)

	now := uc.now()
	var promoted *binding.IdentityBinding
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		// Re-fetch under the lock; a concurrent unbind may have won.
		row, err = uc.ledger.FindActiveByExternalID(ctx, externalID)
		if err != nil {
			if errors.Is(err, binding.ErrBindingNotFound) {
				return binding.ErrNotBound
			}
			return fmt.Errorf("failed to look up identity: %w", err)
		}

		if err := row.Deactivate(now); err != nil {
			return err
		}
		if err := uc.ledger.Update(ctx, row); err != nil {
			return fmt.Errorf("failed to deactivate binding: %w", err)
		}

		t, err := uc.tenants.GetByTenantID(ctx, tenantID)
		if err != nil {
			// The seat is freed even if the tenant row is gone; nothing to
			// promote into it.
			if errors.Is(err, tenant.ErrTenantNotFound) {
				return nil
			}
			return err
		}

		p := &promoter{ledger: uc.ledger, logger: uc.logger}
		promoted, err = p.promoteOne(ctx, t, externalID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.UnbindResponse{
		Outcome:    dto.OutcomeUnbound,
		TenantID:   tenantID,
		ExternalID: externalID,
	}
	if promoted != nil {
		pid := promoted.ExternalID()
		resp.PromotedExternalID = &pid
	}

	uc.logger.Infow("identity unbound",
		"tenant_id", tenantID,
		"external_id", externalID,
		"promoted", promoted != nil,
	)

	return resp, nil
}
