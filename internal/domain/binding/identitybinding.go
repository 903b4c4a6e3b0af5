package binding

import (
	"fmt"
	"time"

	"lexora/internal/shared/id"
)

// Status is the lifecycle state of an identity binding.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IdentityBinding is the ledger row for one external identity (a LINE user
// id). There is at most one row per external identity; at most one tenant
// owns it at a time, and inactive rows are retained for history and
// waitlist promotion.
type IdentityBinding struct {
	rowID       uint
	sid         string
	externalID  string
	tenantID    string
	displayName string
	status      Status

	// boundAt is the most recent activation; nil means never bound, i.e. a
	// waitlisted registration.
	boundAt *time.Time
	// requestedAt is when the identity was first seen for this tenant. It is
	// immutable and orders waitlist promotion.
	requestedAt time.Time

	createdAt time.Time
	updatedAt time.Time
}

func newBinding(externalID, tenantID, displayName string, now time.Time) (*IdentityBinding, error) {
	if externalID == "" {
		return nil, fmt.Errorf("external ID is required")
	}
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}

	sid, err := id.NewIdentityBindingID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	now = now.UTC()
	return &IdentityBinding{
		sid:         sid,
		externalID:  externalID,
		tenantID:    tenantID,
		displayName: displayName,
		status:      StatusInactive,
		requestedAt: now,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// NewActiveBinding creates a freshly bound identity.
func NewActiveBinding(externalID, tenantID, displayName string, now time.Time) (*IdentityBinding, error) {
	b, err := newBinding(externalID, tenantID, displayName, now)
	if err != nil {
		return nil, err
	}
	b.status = StatusActive
	boundAt := now.UTC()
	b.boundAt = &boundAt
	return b, nil
}

// NewWaitlistedBinding creates an inactive, never-bound registration waiting
// for a free seat.
func NewWaitlistedBinding(externalID, tenantID, displayName string, now time.Time) (*IdentityBinding, error) {
	return newBinding(externalID, tenantID, displayName, now)
}

// ReconstructIdentityBinding reconstructs a ledger row from persistence.
func ReconstructIdentityBinding(
	rowID uint,
	sid string,
	externalID string,
	tenantID string,
	displayName string,
	status Status,
	boundAt *time.Time,
	requestedAt time.Time,
	createdAt, updatedAt time.Time,
) *IdentityBinding {
	return &IdentityBinding{
		rowID:       rowID,
		sid:         sid,
		externalID:  externalID,
		tenantID:    tenantID,
		displayName: displayName,
		status:      status,
		boundAt:     boundAt,
		requestedAt: requestedAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Getters
func (b *IdentityBinding) RowID() uint            { return b.rowID }
func (b *IdentityBinding) SID() string            { return b.sid }
func (b *IdentityBinding) ExternalID() string     { return b.externalID }
func (b *IdentityBinding) TenantID() string       { return b.tenantID }
func (b *IdentityBinding) DisplayName() string    { return b.displayName }
func (b *IdentityBinding) Status() Status         { return b.status }
func (b *IdentityBinding) BoundAt() *time.Time    { return b.boundAt }
func (b *IdentityBinding) RequestedAt() time.Time { return b.requestedAt }
func (b *IdentityBinding) CreatedAt() time.Time   { return b.createdAt }
func (b *IdentityBinding) UpdatedAt() time.Time   { return b.updatedAt }

// SetRowID sets the row ID (only for persistence layer use)
func (b *IdentityBinding) SetRowID(rowID uint) {
	b.rowID = rowID
}

// IsActive reports whether the binding currently occupies a seat.
func (b *IdentityBinding) IsActive() bool {
	return b.status == StatusActive
}

// NeverBound reports whether the identity has never held a seat.
func (b *IdentityBinding) NeverBound() bool {
	return b.boundAt == nil
}

// Activate moves the row into a seat for its current tenant. Activating an
// already active row is rejected; callers handle the idempotent re-bind case
// before mutating.
func (b *IdentityBinding) Activate(now time.Time) error {
	if b.status == StatusActive {
		return fmt.Errorf("binding %s is already active", b.sid)
	}
	now = now.UTC()
	b.status = StatusActive
	b.boundAt = &now
	b.touch(now)
	return nil
}

// Deactivate frees the seat. The row is retained, not deleted.
func (b *IdentityBinding) Deactivate(now time.Time) error {
	if b.status != StatusActive {
		return ErrNotBound
	}
	b.status = StatusInactive
	b.touch(now.UTC())
	return nil
}

// MoveWaitlist re-points an inactive row at a different tenant. Only valid
// while the identity holds no seat.
func (b *IdentityBinding) MoveWaitlist(tenantID string, now time.Time) error {
	if b.status == StatusActive {
		return ErrIdentityBoundElsewhere
	}
	if tenantID == "" {
		return fmt.Errorf("tenant ID is required")
	}
	b.tenantID = tenantID
	b.touch(now.UTC())
	return nil
}

// SetDisplayName updates the optional human label.
func (b *IdentityBinding) SetDisplayName(name string, now time.Time) {
	if name == "" {
		return
	}
	b.displayName = name
	b.touch(now.UTC())
}

func (b *IdentityBinding) touch(now time.Time) {
	b.updatedAt = now
}
