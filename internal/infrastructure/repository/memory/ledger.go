package memory

import (
	"context"
	"sort"
	"sync"

	"lexora/internal/domain/binding"
)

// LedgerRepository is an in-memory binding.LedgerRepository keyed by external
// identity. It stores deep copies so callers never alias internal state.
type LedgerRepository struct {
	mu         sync.Mutex
	byExternal map[string]*binding.IdentityBinding
	nextID     uint
}

// NewLedgerRepository creates an empty in-memory ledger.
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{byExternal: make(map[string]*binding.IdentityBinding)}
}

// ActiveCountForTenant counts active rows for the tenant.
func (r *LedgerRepository) ActiveCountForTenant(ctx context.Context, tenantID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, b := range r.byExternal {
		if b.TenantID() == tenantID && b.IsActive() {
			count++
		}
	}
	return count, nil
}

// FindByExternalID returns the row for the identity regardless of status.
func (r *LedgerRepository) FindByExternalID(ctx context.Context, externalID string) (*binding.IdentityBinding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byExternal[externalID]
	if !ok {
		return nil, binding.ErrBindingNotFound
	}
	return copyBinding(b), nil
}

// FindActiveByExternalID returns the row only if it is active.
func (r *LedgerRepository) FindActiveByExternalID(ctx context.Context, externalID string) (*binding.IdentityBinding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byExternal[externalID]
	if !ok || !b.IsActive() {
		return nil, binding.ErrBindingNotFound
	}
	return copyBinding(b), nil
}

// OldestInactiveForTenant returns the promotion candidate: never-bound rows
// first, then earliest request time, ties by insertion order.
func (r *LedgerRepository) OldestInactiveForTenant(ctx context.Context, tenantID, excludeExternalID string) (*binding.IdentityBinding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var candidates []*binding.IdentityBinding
	for _, b := range r.byExternal {
		if b.TenantID() != tenantID || b.IsActive() {
			continue
		}
		if excludeExternalID != "" && b.ExternalID() == excludeExternalID {
			continue
		}
		candidates = append(candidates, b)
	}
	if len(candidates) == 0 {
		return nil, binding.ErrBindingNotFound
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.NeverBound() != b.NeverBound() {
			return a.NeverBound()
		}
		if !a.RequestedAt().Equal(b.RequestedAt()) {
			return a.RequestedAt().Before(b.RequestedAt())
		}
		return a.RowID() < b.RowID()
	})
	return copyBinding(candidates[0]), nil
}

// Create persists a new ledger row.
func (r *LedgerRepository) Create(ctx context.Context, b *binding.IdentityBinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byExternal[b.ExternalID()]; exists {
		return binding.ErrIdentityBoundElsewhere
	}
	r.nextID++
	b.SetRowID(r.nextID)
	r.byExternal[b.ExternalID()] = copyBinding(b)
	return nil
}

// Update persists ledger row mutations.
func (r *LedgerRepository) Update(ctx context.Context, b *binding.IdentityBinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byExternal[b.ExternalID()]; !exists {
		return binding.ErrBindingNotFound
	}
	r.byExternal[b.ExternalID()] = copyBinding(b)
	return nil
}

func copyBinding(b *binding.IdentityBinding) *binding.IdentityBinding {
	boundAt := b.BoundAt()
	if boundAt != nil {
		t := *boundAt
		boundAt = &t
	}
	return binding.ReconstructIdentityBinding(
		b.RowID(),
		b.SID(),
		b.ExternalID(),
		b.TenantID(),
		b.DisplayName(),
		b.Status(),
		boundAt,
		b.RequestedAt(),
		b.CreatedAt(),
		b.UpdatedAt(),
	)
}
