package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lexora/internal/domain/binding"
	"lexora/internal/domain/tenant"
	"lexora/internal/shared/logger"
)

// promoter activates waitlisted identities into freed seats, oldest first.
// Callers must hold the tenant's lock; promotion reads and writes the ledger
// inside the caller's transaction.
type promoter struct {
	ledger binding.LedgerRepository
	logger logger.Interface
}

// promoteOne activates the oldest inactive candidate for the tenant if a
// seat is free. excludeExternalID skips the identity that just vacated its
// seat. Returns nil without error when there is nothing to promote.
func (p *promoter) promoteOne(ctx context.Context, t *tenant.Tenant, excludeExternalID string, now time.Time) (*binding.IdentityBinding, error) {
	if !t.IsBindable() {
		return nil, nil
	}

	used, err := p.ledger.ActiveCountForTenant(ctx, t.TenantID())
	if err != nil {
		return nil, fmt.Errorf("failed to count active seats: %w", err)
	}
	if used >= int64(t.SeatLimit()) {
		return nil, nil
	}

	cand, err := p.ledger.OldestInactiveForTenant(ctx, t.TenantID(), excludeExternalID)
	if err != nil {
		if errors.Is(err, binding.ErrBindingNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find promotion candidate: %w", err)
	}

	if err := cand.Activate(now); err != nil {
		return nil, err
	}
	if err := p.ledger.Update(ctx, cand); err != nil {
		return nil, fmt.Errorf("failed to promote candidate: %w", err)
	}

	p.logger.Infow("waitlisted identity promoted",
		"tenant_id", t.TenantID(),
		"external_id", cand.ExternalID(),
	)

	return cand, nil
}

// promoteUntilFull repeats promoteOne until the seat limit is reached or no
// candidates remain, returning the promoted external IDs in order.
func (p *promoter) promoteUntilFull(ctx context.Context, t *tenant.Tenant, now time.Time) ([]string, error) {
	var promoted []string
	for {
		cand, err := p.promoteOne(ctx, t, "", now)
		if err != nil {
			return promoted, err
		}
		if cand == nil {
			return promoted, nil
		}
		promoted = append(promoted, cand.ExternalID())
	}
}
