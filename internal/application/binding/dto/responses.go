package dto

import "time"

// Binding outcomes surfaced to API clients.
const (
	OutcomeBound        = "Bound"
	OutcomeAlreadyBound = "AlreadyBound"
	OutcomeUnbound      = "Unbound"
	OutcomeWaitlisted   = "Waitlisted"
)

// BindingCodeResponse is returned when a binding code is issued.
type BindingCodeResponse struct {
	Code      string    `json:"code"`
	TenantID  string    `json:"tenant_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BindingResultResponse is returned when a binding completes.
type BindingResultResponse struct {
	Outcome     string     `json:"outcome"`
	SID         string     `json:"sid,omitempty"`
	TenantID    string     `json:"tenant_id"`
	ExternalID  string     `json:"external_id"`
	DisplayName string     `json:"display_name,omitempty"`
	BoundAt     *time.Time `json:"bound_at,omitempty"`
	SeatsUsed   int        `json:"seats_used"`
	SeatsLimit  int        `json:"seats_limit"`
}

// UnbindResponse is returned when an identity is unbound.
type UnbindResponse struct {
	Outcome            string  `json:"outcome"`
	TenantID           string  `json:"tenant_id"`
	ExternalID         string  `json:"external_id"`
	PromotedExternalID *string `json:"promoted_external_id,omitempty"`
}

// WaitlistResponse is returned when an identity joins a tenant's waitlist.
type WaitlistResponse struct {
	Outcome     string    `json:"outcome"`
	TenantID    string    `json:"tenant_id"`
	ExternalID  string    `json:"external_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// SeatStatusResponse reports a tenant's live seat usage.
type SeatStatusResponse struct {
	TenantID   string `json:"tenant_id"`
	PlanKey    string `json:"plan_key"`
	PlanName   string `json:"plan_name"`
	SeatsUsed  int    `json:"seats_used"`
	SeatsLimit int    `json:"seats_limit"`
	Unlimited  bool   `json:"unlimited"`
}

// PlanChangeResponse reports a plan change and the identities it promoted.
type PlanChangeResponse struct {
	TenantID string   `json:"tenant_id"`
	PlanKey  string   `json:"plan_key"`
	Promoted []string `json:"promoted"`
}
