package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lexora/internal/domain/tenant"
	"lexora/internal/infrastructure/repository/memory"
	"lexora/internal/shared/lock"
	"lexora/internal/shared/logger"
)

// fixture wires the use cases against the in-memory stores so tests exercise
// real store semantics (atomic consume, live counts) instead of mocks.
type fixture struct {
	codes   *memory.CodeStore
	ledger  *memory.LedgerRepository
	tenants *memory.TenantRepository

	issue    *IssueBindingCodeUseCase
	complete *CompleteBindingUseCase
	unbind   *UnbindUseCase
	upgraded *OnPlanUpgradedUseCase
	change   *ChangePlanUseCase
	enlist   *EnlistUseCase
	status   *SeatStatusUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	codes := memory.NewCodeStore()
	ledger := memory.NewLedgerRepository()
	tenants := memory.NewTenantRepository()
	tx := memory.NewTxRunner()
	locks := lock.NewKeyedMutex()
	log := logger.NewLogger()

	upgraded := NewOnPlanUpgradedUseCase(ledger, tenants, locks, tx, log)

	return &fixture{
		codes:    codes,
		ledger:   ledger,
		tenants:  tenants,
		issue:    NewIssueBindingCodeUseCase(tenants, ledger, codes, log),
		complete: NewCompleteBindingUseCase(codes, ledger, tenants, locks, tx, log),
		unbind:   NewUnbindUseCase(ledger, tenants, locks, tx, log),
		upgraded: upgraded,
		change:   NewChangePlanUseCase(tenants, upgraded, log),
		enlist:   NewEnlistUseCase(ledger, tenants, locks, tx, log),
		status:   NewSeatStatusUseCase(tenants, ledger, log),
	}
}

func (f *fixture) addTenant(t *testing.T, tenantID, planKey string) *tenant.Tenant {
	t.Helper()

	tn, err := tenant.NewTenant(tenantID, tenantID, planKey)
	require.NoError(t, err)
	require.NoError(t, f.tenants.Create(context.Background(), tn))
	return tn
}

// issueCode issues a binding code for the tenant and returns the token.
func (f *fixture) issueCode(t *testing.T, tenantID string) string {
	t.Helper()

	code, err := f.issue.Execute(context.Background(), tenantID, 0)
	require.NoError(t, err)
	return code.Code()
}

// bind issues a code and completes the binding for the identity.
func (f *fixture) bind(t *testing.T, tenantID, externalID string) {
	t.Helper()

	_, err := f.complete.Execute(context.Background(), CompleteBindingCommand{
		Code:       f.issueCode(t, tenantID),
		ExternalID: externalID,
	})
	require.NoError(t, err)
}

func (f *fixture) activeCount(t *testing.T, tenantID string) int64 {
	t.Helper()

	n, err := f.ledger.ActiveCountForTenant(context.Background(), tenantID)
	require.NoError(t, err)
	return n
}
