package binding

import (
	"fmt"
	"time"

	"lexora/internal/shared/id"
)

// DefaultCodeTTL is the default lifetime of a binding code.
const DefaultCodeTTL = 10 * time.Minute

// BindingCode is a short-lived, single-use token authorizing one external
// identity to bind to one tenant. Once consumed the flag never reverts.
type BindingCode struct {
	rowID    uint
	code     string
	tenantID string
	issuedAt time.Time
	expires  time.Time
	consumed bool
}

// NewBindingCode issues a fresh unconsumed code for the tenant.
func NewBindingCode(tenantID string, ttl time.Duration, now time.Time) (*BindingCode, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}

	token, err := id.NewBindingCodeToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code token: %w", err)
	}

	now = now.UTC()
	return &BindingCode{
		code:     token,
		tenantID: tenantID,
		issuedAt: now,
		expires:  now.Add(ttl),
	}, nil
}

// ReconstructBindingCode reconstructs a code from persistence.
func ReconstructBindingCode(rowID uint, code, tenantID string, issuedAt, expiresAt time.Time, consumed bool) *BindingCode {
	return &BindingCode{
		rowID:    rowID,
		code:     code,
		tenantID: tenantID,
		issuedAt: issuedAt,
		expires:  expiresAt,
		consumed: consumed,
	}
}

// Getters
func (c *BindingCode) RowID() uint          { return c.rowID }
func (c *BindingCode) Code() string         { return c.code }
func (c *BindingCode) TenantID() string     { return c.tenantID }
func (c *BindingCode) IssuedAt() time.Time  { return c.issuedAt }
func (c *BindingCode) ExpiresAt() time.Time { return c.expires }
func (c *BindingCode) Consumed() bool       { return c.consumed }

// SetRowID sets the row ID (only for persistence layer use)
func (c *BindingCode) SetRowID(rowID uint) {
	c.rowID = rowID
}

// IsExpired reports whether the code is past its expiry at the given instant.
func (c *BindingCode) IsExpired(now time.Time) bool {
	return now.After(c.expires)
}

// MarkConsumed flips the single-use flag. It fails on expired or already
// consumed codes; stores must additionally guarantee that exactly one of two
// racing consumers succeeds.
func (c *BindingCode) MarkConsumed(now time.Time) error {
	if c.consumed {
		return ErrCodeAlreadyUsed
	}
	if c.IsExpired(now) {
		return ErrCodeExpired
	}
	c.consumed = true
	return nil
}
