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

// CompleteBindingCommand carries the input of a binding completion.
type CompleteBindingCommand struct {
	Code        string
	ExternalID  string
	DisplayName string
}

// CompleteBindingUseCase consumes a binding code and binds the external
// identity to the code's tenant under the seat quota.
//
// The code is consumed first and is not refunded if a later step fails:
// codes are cheap to reissue and un-consuming would reopen replay.
type CompleteBindingUseCase struct {
	codes   binding.CodeStore
	ledger  binding.LedgerRepository
	tenants tenant.Repository
	locks   *lock.KeyedMutex
	tx      TxRunner
	logger  logger.Interface
	now     func() time.Time
}

// NewCompleteBindingUseCase creates a new CompleteBindingUseCase
func NewCompleteBindingUseCase(
	codes binding.CodeStore,
	ledger binding.LedgerRepository,
	tenants tenant.Repository,
	locks *lock.KeyedMutex,
	tx TxRunner,
	logger logger.Interface,
) *CompleteBindingUseCase {
	return &CompleteBindingUseCase{
		codes:   codes,
		ledger:  ledger,
		tenants: tenants,
		locks:   locks,
		tx:      tx,
		logger:  logger,
		now:     biztime.NowUTC,
	}
}

// Execute runs the bind transaction. Callers must not retry with the same
// code after any failure; only a freshly issued code is valid again.
func (uc *CompleteBindingUseCase) Execute(ctx context.Context, cmd CompleteBindingCommand) (*dto.BindingResultResponse, error) {
	if cmd.ExternalID == "" {
		return nil, fmt.Errorf("external ID is required")
	}

	now := uc.now()

	// Step 1: consume the code. Exactly one caller wins a racing consume.
	code, err := uc.codes.TryConsume(ctx, cmd.Code, now)
	if err != nil {
		uc.logger.Warnw("binding code rejected", "error", err)
		return nil, err
	}
	tenantID := code.TenantID()

	// Step 2: the tenant must still be bindable; state may have changed
	// between issuance and use.
	t, err := uc.tenants.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !t.IsBindable() {
		return nil, tenant.ErrTenantInactive
	}

	// Steps 3-6 run serialized per tenant so two completions cannot both
	// pass the quota check for the last seat.
	uc.locks.Lock(tenantID)
	defer uc.locks.Unlock(tenantID)

	var result *dto.BindingResultResponse
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		limit := t.SeatLimit()

		// Step 3/4: existing active binding.
		existing, err := uc.ledger.FindActiveByExternalID(ctx, cmd.ExternalID)
		if err == nil {
			if existing.TenantID() == tenantID {
				used, err := uc.ledger.ActiveCountForTenant(ctx, tenantID)
				if err != nil {
					return fmt.Errorf("failed to count active seats: %w", err)
				}
				result = bindingResult(dto.OutcomeAlreadyBound, existing, int(used), limit)
				return nil
			}
			return binding.ErrIdentityBoundElsewhere
		}
		if !errors.Is(err, binding.ErrBindingNotFound) {
			return fmt.Errorf("failed to look up identity: %w", err)
		}

		// Step 5: quota re-check, inside the same critical section as the
		// upsert below.
		used, err := uc.ledger.ActiveCountForTenant(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("failed to count active seats: %w", err)
		}
		if used >= int64(limit) {
			return &binding.PlanLimitError{
				TenantID:   tenantID,
				SeatsUsed:  int(used),
				SeatsLimit: limit,
			}
		}

		// Step 6: upsert. An inactive row is reactivated (re-pointed first if
		// it was waiting on another tenant); otherwise a new row is created.
		row, err := uc.ledger.FindByExternalID(ctx, cmd.ExternalID)
		switch {
		case err == nil:
			if row.TenantID() != tenantID {
				if err := row.MoveWaitlist(tenantID, now); err != nil {
					return err
				}
			}
			row.SetDisplayName(cmd.DisplayName, now)
			if err := row.Activate(now); err != nil {
				return err
			}
			if err := uc.ledger.Update(ctx, row); err != nil {
				return fmt.Errorf("failed to update binding: %w", err)
			}
		case errors.Is(err, binding.ErrBindingNotFound):
			row, err = binding.NewActiveBinding(cmd.ExternalID, tenantID, cmd.DisplayName, now)
			if err != nil {
				return err
			}
			if err := uc.ledger.Create(ctx, row); err != nil {
				return fmt.Errorf("failed to create binding: %w", err)
			}
		default:
			return fmt.Errorf("failed to look up identity: %w", err)
		}

		result = bindingResult(dto.OutcomeBound, row, int(used)+1, limit)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("binding completed",
		"tenant_id", tenantID,
		"external_id", cmd.ExternalID,
		"outcome", result.Outcome,
	)

	return result, nil
}

func bindingResult(outcome string, row *binding.IdentityBinding, used, limit int) *dto.BindingResultResponse {
	return &dto.BindingResultResponse{
		Outcome:     outcome,
		SID:         row.SID(),
		TenantID:    row.TenantID(),
		ExternalID:  row.ExternalID(),
		DisplayName: row.DisplayName(),
		BoundAt:     row.BoundAt(),
		SeatsUsed:   used,
		SeatsLimit:  limit,
	}
}
