package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when a tenant is not found
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrTenantInactive is returned when an inactive tenant is asked to accept a binding
	ErrTenantInactive = errors.New("tenant is inactive")
	// ErrTenantExists is returned when creating a tenant whose ID is taken
	ErrTenantExists = errors.New("tenant already exists")
)
