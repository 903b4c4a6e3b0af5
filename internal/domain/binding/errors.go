package binding

import (
	"errors"
	"fmt"
)

var (
	// ErrCodeNotFound is returned when a binding code does not exist
	ErrCodeNotFound = errors.New("binding code not found")
	// ErrCodeExpired is returned when a binding code is past its expiry
	ErrCodeExpired = errors.New("binding code expired")
	// ErrCodeAlreadyUsed is returned when a binding code was already consumed
	ErrCodeAlreadyUsed = errors.New("binding code already used")
	// ErrIdentityBoundElsewhere is returned when the external identity is
	// actively bound to a different tenant
	ErrIdentityBoundElsewhere = errors.New("identity already bound to another tenant")
	// ErrNotBound is returned when unbinding an identity with no active binding
	ErrNotBound = errors.New("identity is not bound")
	// ErrBindingNotFound is returned when a ledger row is not found
	ErrBindingNotFound = errors.New("identity binding not found")
	// ErrPlanLimitExceeded is the sentinel wrapped by PlanLimitError
	ErrPlanLimitExceeded = errors.New("plan seat limit exceeded")
)

// PlanLimitError reports a seat-quota rejection with enough context for the
// caller to surface seats_used/seats_limit to an end user.
type PlanLimitError struct {
	TenantID   string
	SeatsUsed  int
	SeatsLimit int
}

func (e *PlanLimitError) Error() string {
	return fmt.Sprintf("plan seat limit exceeded for tenant %s (%d/%d)", e.TenantID, e.SeatsUsed, e.SeatsLimit)
}

// Unwrap makes errors.Is(err, ErrPlanLimitExceeded) work.
func (e *PlanLimitError) Unwrap() error {
	return ErrPlanLimitExceeded
}
