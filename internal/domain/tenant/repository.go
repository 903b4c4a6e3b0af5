package tenant

import "context"

// Repository defines the persistence interface for tenants.
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByTenantID(ctx context.Context, tenantID string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
}
