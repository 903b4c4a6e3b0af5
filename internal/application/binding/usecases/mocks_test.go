package usecases

import (
	"context"
	"time"

	"lexora/internal/domain/binding"
	"lexora/internal/domain/tenant"
)

type mockCodeStore struct {
	IssueFunc        func(ctx context.Context, tenantID string, ttl time.Duration, now time.Time) (*binding.BindingCode, error)
	PeekFunc         func(ctx context.Context, code string) (*binding.BindingCode, error)
	TryConsumeFunc   func(ctx context.Context, code string, now time.Time) (*binding.BindingCode, error)
	SweepExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockCodeStore) Issue(ctx context.Context, tenantID string, ttl time.Duration, now time.Time) (*binding.BindingCode, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, tenantID, ttl, now)
	}
	return binding.NewBindingCode(tenantID, ttl, now)
}

func (m *mockCodeStore) Peek(ctx context.Context, code string) (*binding.BindingCode, error) {
	if m.PeekFunc != nil {
		return m.PeekFunc(ctx, code)
	}
	return nil, binding.ErrCodeNotFound
}

func (m *mockCodeStore) TryConsume(ctx context.Context, code string, now time.Time) (*binding.BindingCode, error) {
	if m.TryConsumeFunc != nil {
		return m.TryConsumeFunc(ctx, code, now)
	}
	return nil, binding.ErrCodeNotFound
}

func (m *mockCodeStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.SweepExpiredFunc != nil {
		return m.SweepExpiredFunc(ctx, now)
	}
	return 0, nil
}

type mockLedgerRepository struct {
	ActiveCountForTenantFunc    func(ctx context.Context, tenantID string) (int64, error)
	FindByExternalIDFunc        func(ctx context.Context, externalID string) (*binding.IdentityBinding, error)
	FindActiveByExternalIDFunc  func(ctx context.Context, externalID string) (*binding.IdentityBinding, error)
	OldestInactiveForTenantFunc func(ctx context.Context, tenantID, excludeExternalID string) (*binding.IdentityBinding, error)
	CreateFunc                  func(ctx context.Context, b *binding.IdentityBinding) error
	UpdateFunc                  func(ctx context.Context, b *binding.IdentityBinding) error
}

func (m *mockLedgerRepository) ActiveCountForTenant(ctx context.Context, tenantID string) (int64, error) {
	if m.ActiveCountForTenantFunc != nil {
		return m.ActiveCountForTenantFunc(ctx, tenantID)
	}
	return 0, nil
}

func (m *mockLedgerRepository) FindByExternalID(ctx context.Context, externalID string) (*binding.IdentityBinding, error) {
	if m.FindByExternalIDFunc != nil {
		return m.FindByExternalIDFunc(ctx, externalID)
	}
	return nil, binding.ErrBindingNotFound
}

func (m *mockLedgerRepository) FindActiveByExternalID(ctx context.Context, externalID string) (*binding.IdentityBinding, error) {
	if m.FindActiveByExternalIDFunc != nil {
		return m.FindActiveByExternalIDFunc(ctx, externalID)
	}
	return nil, binding.ErrBindingNotFound
}

func (m *mockLedgerRepository) OldestInactiveForTenant(ctx context.Context, tenantID, excludeExternalID string) (*binding.IdentityBinding, error) {
	if m.OldestInactiveForTenantFunc != nil {
		return m.OldestInactiveForTenantFunc(ctx, tenantID, excludeExternalID)
	}
	return nil, binding.ErrBindingNotFound
}

func (m *mockLedgerRepository) Create(ctx context.Context, b *binding.IdentityBinding) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, b)
	}
	return nil
}

func (m *mockLedgerRepository) Update(ctx context.Context, b *binding.IdentityBinding) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, b)
	}
	return nil
}

type mockTenantRepository struct {
	CreateFunc        func(ctx context.Context, t *tenant.Tenant) error
	GetByTenantIDFunc func(ctx context.Context, tenantID string) (*tenant.Tenant, error)
	UpdateFunc        func(ctx context.Context, t *tenant.Tenant) error
}

func (m *mockTenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return nil
}

func (m *mockTenantRepository) GetByTenantID(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
	if m.GetByTenantIDFunc != nil {
		return m.GetByTenantIDFunc(ctx, tenantID)
	}
	return nil, tenant.ErrTenantNotFound
}

func (m *mockTenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return nil
}

// passthroughTx runs the callback directly, like the in-memory runner.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func makeTenant(tenantID, planKey string) *tenant.Tenant {
	t, err := tenant.NewTenant(tenantID, tenantID, planKey)
	if err != nil {
		panic(err)
	}
	t.SetID(1)
	return t
}
