package tenant

import (
	"fmt"
	"time"

	"lexora/internal/domain/plan"
	"lexora/internal/shared/biztime"
)

// Tenant represents a law-firm customer account. The seat count is never
// stored here; it is always recomputed from the identity ledger.
type Tenant struct {
	id          uint
	tenantID    string
	displayName string
	planKey     string
	isActive    bool

	createdAt time.Time
	updatedAt time.Time
}

// NewTenant creates an active tenant on the given plan. The plan key is
// canonicalized; unknown keys are kept but resolve to the zero-seat fallback.
func NewTenant(tenantID, displayName, planKey string) (*Tenant, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if len(tenantID) > 100 {
		return nil, fmt.Errorf("tenant ID too long (max 100 characters)")
	}

	now := biztime.NowUTC()
	return &Tenant{
		tenantID:    tenantID,
		displayName: displayName,
		planKey:     plan.Canonicalize(planKey),
		isActive:    true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructTenant reconstructs a tenant from persistence.
func ReconstructTenant(
	id uint,
	tenantID string,
	displayName string,
	planKey string,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Tenant {
	return &Tenant{
		id:          id,
		tenantID:    tenantID,
		displayName: displayName,
		planKey:     planKey,
		isActive:    isActive,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Getters
func (t *Tenant) ID() uint             { return t.id }
func (t *Tenant) TenantID() string     { return t.tenantID }
func (t *Tenant) DisplayName() string  { return t.displayName }
func (t *Tenant) PlanKey() string      { return t.planKey }
func (t *Tenant) IsActive() bool       { return t.isActive }
func (t *Tenant) CreatedAt() time.Time { return t.createdAt }
func (t *Tenant) UpdatedAt() time.Time { return t.updatedAt }

// SetID sets the row ID (only for persistence layer use)
func (t *Tenant) SetID(id uint) {
	t.id = id
}

// SeatLimit resolves the tenant's current seat limit from the plan catalogue.
func (t *Tenant) SeatLimit() int {
	return plan.SeatLimitOf(t.planKey)
}

// IsBindable reports whether the tenant accepts new bindings.
func (t *Tenant) IsBindable() bool {
	return t.isActive
}

// SetPlan changes the plan key. It is a pure field mutation; the caller is
// responsible for running the promotion hook afterwards.
func (t *Tenant) SetPlan(planKey string) {
	t.planKey = plan.Canonicalize(planKey)
	t.updatedAt = biztime.NowUTC()
}

// Deactivate stops the tenant from accepting new bindings. Existing bindings
// are not touched.
func (t *Tenant) Deactivate() {
	t.isActive = false
	t.updatedAt = biztime.NowUTC()
}

// Activate re-enables the tenant.
func (t *Tenant) Activate() {
	t.isActive = true
	t.updatedAt = biztime.NowUTC()
}

// Rename updates the display name.
func (t *Tenant) Rename(displayName string) {
	t.displayName = displayName
	t.updatedAt = biztime.NowUTC()
}
