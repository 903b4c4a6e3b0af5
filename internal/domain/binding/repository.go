package binding

import (
	"context"
	"time"
)

// CodeStore stores outstanding binding codes. Implementations must make
// TryConsume atomic: exactly one of two racing consumers of the same code
// succeeds, the rest observe ErrCodeAlreadyUsed.
type CodeStore interface {
	// Issue persists a fresh code for the tenant. It does not check seat
	// availability; that is the caller's responsibility.
	Issue(ctx context.Context, tenantID string, ttl time.Duration, now time.Time) (*BindingCode, error)

	// Peek is a read-only lookup. Returns ErrCodeNotFound for unknown codes;
	// it neither mutates nor auto-expires.
	Peek(ctx context.Context, code string) (*BindingCode, error)

	// TryConsume is the only mutation path. It fails with ErrCodeNotFound,
	// ErrCodeExpired (deleting the stale row as a side effect), or
	// ErrCodeAlreadyUsed; on success it atomically sets the consumed flag and
	// returns the record.
	TryConsume(ctx context.Context, code string, now time.Time) (*BindingCode, error)

	// SweepExpired deletes unconsumed rows past their expiry. Best-effort
	// housekeeping; TryConsume already enforces expiry.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// LedgerRepository is the authoritative store of identity-to-tenant bindings.
// Seat counts are always computed live from it, never cached. All mutations
// go through the binding service; handlers never write here directly.
type LedgerRepository interface {
	// ActiveCountForTenant counts rows with status=active for the tenant.
	ActiveCountForTenant(ctx context.Context, tenantID string) (int64, error)

	// FindByExternalID returns the row for the identity regardless of status.
	// Returns ErrBindingNotFound when absent.
	FindByExternalID(ctx context.Context, externalID string) (*IdentityBinding, error)

	// FindActiveByExternalID returns the row only if status=active.
	// Returns ErrBindingNotFound otherwise.
	FindActiveByExternalID(ctx context.Context, externalID string) (*IdentityBinding, error)

	// OldestInactiveForTenant returns the promotion candidate: the inactive
	// row for the tenant with never-bound registrations first, then by
	// earliest request time, ties broken by insertion order. Rows whose
	// external ID equals excludeExternalID are skipped so an identity is
	// never promoted back into the seat it just vacated.
	// Returns ErrBindingNotFound when no candidate exists.
	OldestInactiveForTenant(ctx context.Context, tenantID, excludeExternalID string) (*IdentityBinding, error)

	Create(ctx context.Context, b *IdentityBinding) error
	Update(ctx context.Context, b *IdentityBinding) error
}
