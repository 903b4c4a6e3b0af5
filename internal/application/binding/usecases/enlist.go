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

// EnlistUseCase registers an external identity on a tenant's waitlist: an
// inactive, never-bound ledger row that promotion activates when a seat
// frees up.
type EnlistUseCase struct {
	ledger  binding.LedgerRepository
	tenants tenant.Repository
	locks   *lock.KeyedMutex
	tx      TxRunner
	logger  logger.Interface
	now     func() time.Time
}

// NewEnlistUseCase creates a new EnlistUseCase
func NewEnlistUseCase(
	ledger binding.LedgerRepository,
	tenants tenant.Repository,
	locks *lock.KeyedMutex,
	tx TxRunner,
	logger logger.Interface,
) *EnlistUseCase {
	return &EnlistUseCase{
		ledger:  ledger,
		tenants: tenants,
		locks:   locks,
		tx:      tx,
		logger:  logger,
		now:     biztime.NowUTC,
	}
}

// Execute adds the identity to the tenant's waitlist. Enlisting the same
// identity twice for the same tenant is a no-op; an identity waiting on a
// different tenant is re-pointed; an actively bound identity is rejected.
func (uc *EnlistUseCase) Execute(ctx context.Context, tenantID, externalID, displayName string) (*dto.WaitlistResponse, error) {
	if externalID == "" {
		return nil, fmt.Errorf("external ID is required")
	}

	t, err := uc.tenants.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !t.IsBindable() {
		return nil, tenant.ErrTenantInactive
	}

	uc.locks.Lock(tenantID)
	defer uc.locks.Unlock(tenantID)

	now := uc.now()
	var row *binding.IdentityBinding
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		row, err = uc.ledger.FindByExternalID(ctx, externalID)
		switch {
		case err == nil:
			if row.IsActive() {
				return binding.ErrIdentityBoundElsewhere
			}
			if row.TenantID() != tenantID {
				if err := row.MoveWaitlist(tenantID, now); err != nil {
					return err
				}
			}
			row.SetDisplayName(displayName, now)
			return uc.ledger.Update(ctx, row)
		case errors.Is(err, binding.ErrBindingNotFound):
			row, err = binding.NewWaitlistedBinding(externalID, tenantID, displayName, now)
			if err != nil {
				return err
			}
			return uc.ledger.Create(ctx, row)
		default:
			return fmt.Errorf("failed to look up identity: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("identity waitlisted",
		"tenant_id", tenantID,
		"external_id", externalID,
	)

	return &dto.WaitlistResponse{
		Outcome:     dto.OutcomeWaitlisted,
		TenantID:    tenantID,
		ExternalID:  externalID,
		RequestedAt: row.RequestedAt(),
	}, nil
}
