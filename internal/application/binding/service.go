// Package binding aggregates the seat-allocation and identity-binding use
// cases behind one service. It is the only component that mutates the
// identity ledger; route handlers never write to storage directly, because
// the seat-quota guarantee depends on the per-tenant serialization here.
package binding

import (
	"context"
	"time"

	"lexora/internal/application/binding/dto"
	"lexora/internal/application/binding/usecases"
	domain "lexora/internal/domain/binding"
	"lexora/internal/domain/tenant"
	"lexora/internal/shared/biztime"
	"lexora/internal/shared/lock"
	"lexora/internal/shared/logger"
)

// Service aggregates all binding-related use cases.
type Service struct {
	issueUC    *usecases.IssueBindingCodeUseCase
	completeUC *usecases.CompleteBindingUseCase
	unbindUC   *usecases.UnbindUseCase
	upgradedUC *usecases.OnPlanUpgradedUseCase
	changeUC   *usecases.ChangePlanUseCase
	enlistUC   *usecases.EnlistUseCase
	statusUC   *usecases.SeatStatusUseCase

	codes      domain.CodeStore
	defaultTTL time.Duration
	logger     logger.Interface
}

// NewService creates a binding service. codeTTL is the default binding-code
// lifetime; non-positive selects the built-in default.
func NewService(
	codes domain.CodeStore,
	ledger domain.LedgerRepository,
	tenants tenant.Repository,
	tx usecases.TxRunner,
	codeTTL time.Duration,
	logger logger.Interface,
) *Service {
	if codeTTL <= 0 {
		codeTTL = domain.DefaultCodeTTL
	}

	locks := lock.NewKeyedMutex()
	upgradedUC := usecases.NewOnPlanUpgradedUseCase(ledger, tenants, locks, tx, logger)

	return &Service{
		issueUC:    usecases.NewIssueBindingCodeUseCase(tenants, ledger, codes, logger),
		completeUC: usecases.NewCompleteBindingUseCase(codes, ledger, tenants, locks, tx, logger),
		unbindUC:   usecases.NewUnbindUseCase(ledger, tenants, locks, tx, logger),
		upgradedUC: upgradedUC,
		changeUC:   usecases.NewChangePlanUseCase(tenants, upgradedUC, logger),
		enlistUC:   usecases.NewEnlistUseCase(ledger, tenants, locks, tx, logger),
		statusUC:   usecases.NewSeatStatusUseCase(tenants, ledger, logger),
		codes:      codes,
		defaultTTL: codeTTL,
		logger:     logger,
	}
}

// IssueBindingCode issues a code for the tenant. A non-positive ttl selects
// the configured default.
func (s *Service) IssueBindingCode(ctx context.Context, tenantID string, ttl time.Duration) (*dto.BindingCodeResponse, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	code, err := s.issueUC.Execute(ctx, tenantID, ttl)
	if err != nil {
		return nil, err
	}
	return &dto.BindingCodeResponse{
		Code:      code.Code(),
		TenantID:  code.TenantID(),
		IssuedAt:  code.IssuedAt(),
		ExpiresAt: code.ExpiresAt(),
	}, nil
}

// CompleteBinding consumes a code and binds the identity to its tenant.
func (s *Service) CompleteBinding(ctx context.Context, code, externalID, displayName string) (*dto.BindingResultResponse, error) {
	return s.completeUC.Execute(ctx, usecases.CompleteBindingCommand{
		Code:        code,
		ExternalID:  externalID,
		DisplayName: displayName,
	})
}

// Unbind frees the identity's seat and promotes the oldest waitlisted
// candidate into it.
func (s *Service) Unbind(ctx context.Context, externalID string) (*dto.UnbindResponse, error) {
	return s.unbindUC.Execute(ctx, externalID)
}

// OnPlanUpgraded promotes waitlisted identities into seats freed by a plan
// change.
func (s *Service) OnPlanUpgraded(ctx context.Context, tenantID string) ([]string, error) {
	return s.upgradedUC.Execute(ctx, tenantID)
}

// ChangePlan sets the tenant's plan and runs the promotion hook.
func (s *Service) ChangePlan(ctx context.Context, tenantID, newPlanKey string) (*dto.PlanChangeResponse, error) {
	return s.changeUC.Execute(ctx, tenantID, newPlanKey)
}

// Enlist puts the identity on the tenant's waitlist.
func (s *Service) Enlist(ctx context.Context, tenantID, externalID, displayName string) (*dto.WaitlistResponse, error) {
	return s.enlistUC.Execute(ctx, tenantID, externalID, displayName)
}

// QuerySeatStatus reports the tenant's live seat usage.
func (s *Service) QuerySeatStatus(ctx context.Context, tenantID string) (*dto.SeatStatusResponse, error) {
	return s.statusUC.Execute(ctx, tenantID)
}

// SweepExpiredCodes deletes expired unconsumed codes. Best-effort
// housekeeping; consumption already enforces expiry.
func (s *Service) SweepExpiredCodes(ctx context.Context) (int64, error) {
	n, err := s.codes.SweepExpired(ctx, biztime.NowUTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Debugw("expired binding codes swept", "count", n)
	}
	return n, nil
}
