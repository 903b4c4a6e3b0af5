package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexora/internal/domain/binding"
	"lexora/internal/domain/tenant"
	"lexora/internal/shared/logger"
)

func TestIssueBindingCodeUseCase_Success(t *testing.T) {
	tenants := &mockTenantRepository{
		GetByTenantIDFunc: func(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
			return makeTenant("firm-abc", "basic_5"), nil
		},
	}
	ledger := &mockLedgerRepository{
		ActiveCountForTenantFunc: func(ctx context.Context, tenantID string) (int64, error) {
			return 3, nil
		},
	}

	uc := NewIssueBindingCodeUseCase(tenants, ledger, &mockCodeStore{}, logger.NewLogger())

	code, err := uc.Execute(context.Background(), "firm-abc", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "firm-abc", code.TenantID())
	assert.NotEmpty(t, code.Code())
	assert.False(t, code.Consumed())
}

func TestIssueBindingCodeUseCase_TenantNotFound(t *testing.T) {
	uc := NewIssueBindingCodeUseCase(&mockTenantRepository{}, &mockLedgerRepository{}, &mockCodeStore{}, logger.NewLogger())

	_, err := uc.Execute(context.Background(), "nope", time.Minute)
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
}

func TestIssueBindingCodeUseCase_TenantInactive(t *testing.T) {
	tenants := &mockTenantRepository{
		GetByTenantIDFunc: func(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
			tn := makeTenant("firm-abc", "basic_5")
			tn.Deactivate()
			return tn, nil
		},
	}

	uc := NewIssueBindingCodeUseCase(tenants, &mockLedgerRepository{}, &mockCodeStore{}, logger.NewLogger())

	_, err := uc.Execute(context.Background(), "firm-abc", time.Minute)
	assert.ErrorIs(t, err, tenant.ErrTenantInactive)
}

func TestIssueBindingCodeUseCase_PlanLimitReached(t *testing.T) {
	tenants := &mockTenantRepository{
		GetByTenantIDFunc: func(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
			return makeTenant("firm-abc", "basic_5"), nil
		},
	}
	ledger := &mockLedgerRepository{
		ActiveCountForTenantFunc: func(ctx context.Context, tenantID string) (int64, error) {
			return 5, nil
		},
	}

	uc := NewIssueBindingCodeUseCase(tenants, ledger, &mockCodeStore{}, logger.NewLogger())

	_, err := uc.Execute(context.Background(), "firm-abc", time.Minute)
	require.Error(t, err)
	assert.ErrorIs(t, err, binding.ErrPlanLimitExceeded)

	var limitErr *binding.PlanLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 5, limitErr.SeatsUsed)
	assert.Equal(t, 5, limitErr.SeatsLimit)
}

func TestIssueBindingCodeUseCase_ZeroSeatPlanAlwaysFull(t *testing.T) {
	tenants := &mockTenantRepository{
		GetByTenantIDFunc: func(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
			return makeTenant("firm-abc", "none"), nil
		},
	}

	uc := NewIssueBindingCodeUseCase(tenants, &mockLedgerRepository{}, &mockCodeStore{}, logger.NewLogger())

	_, err := uc.Execute(context.Background(), "firm-abc", time.Minute)
	assert.ErrorIs(t, err, binding.ErrPlanLimitExceeded)
}
