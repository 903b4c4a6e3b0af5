package memory

import (
	"context"
	"sync"

	"lexora/internal/domain/tenant"
)

// TenantRepository is an in-memory tenant.Repository.
type TenantRepository struct {
	mu      sync.Mutex
	tenants map[string]*tenant.Tenant
	nextID  uint
}

// NewTenantRepository creates an empty in-memory tenant repository.
func NewTenantRepository() *TenantRepository {
	return &TenantRepository{tenants: make(map[string]*tenant.Tenant)}
}

// Create persists a new tenant.
func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tenants[t.TenantID()]; exists {
		return tenant.ErrTenantExists
	}
	r.nextID++
	t.SetID(r.nextID)
	r.tenants[t.TenantID()] = copyTenant(t)
	return nil
}

// GetByTenantID returns the tenant identified by its public ID.
func (r *TenantRepository) GetByTenantID(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	return copyTenant(t), nil
}

// Update persists tenant mutations.
func (r *TenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tenants[t.TenantID()]; !exists {
		return tenant.ErrTenantNotFound
	}
	r.tenants[t.TenantID()] = copyTenant(t)
	return nil
}

func copyTenant(t *tenant.Tenant) *tenant.Tenant {
	return tenant.ReconstructTenant(
		t.ID(),
		t.TenantID(),
		t.DisplayName(),
		t.PlanKey(),
		t.IsActive(),
		t.CreatedAt(),
		t.UpdatedAt(),
	)
}
