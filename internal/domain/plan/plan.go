// Package plan defines the subscription plan catalogue and seat limits.
// The catalogue is a pure lookup: it has no state and resolution never fails.
package plan

import (
	"errors"
	"strings"
)

// ErrUnknownPlan is returned by write paths that refuse to fall back to the
// zero-seat plan for a key that is not in the catalogue.
var ErrUnknownPlan = errors.New("unknown plan key")

// UnlimitedSeats is the sentinel seat limit for plans without a seat cap.
const UnlimitedSeats = 1<<31 - 1

// Plan describes a pricing tier and the seats it grants.
type Plan struct {
	Key         string
	DisplayName string
	SeatLimit   int
}

// IsUnlimited reports whether the plan has no effective seat cap.
func (p Plan) IsUnlimited() bool {
	return p.SeatLimit >= UnlimitedSeats
}

// FallbackKey is the key of the zero-seat plan unknown keys resolve to.
const FallbackKey = "none"

// catalogue is the hardcoded plan catalogue.
var catalogue = map[string]Plan{
	FallbackKey: {Key: FallbackKey, DisplayName: "No Plan", SeatLimit: 0},
	"basic_5":   {Key: "basic_5", DisplayName: "Basic", SeatLimit: 5},
	"pro_10":    {Key: "pro_10", DisplayName: "Pro", SeatLimit: 10},
	"team_20":   {Key: "team_20", DisplayName: "Team", SeatLimit: 20},
	"unlimited": {Key: "unlimited", DisplayName: "Unlimited", SeatLimit: UnlimitedSeats},
}

// aliases maps historical and short-hand keys to canonical ones.
var aliases = map[string]string{
	"basic": "basic_5",
	"pro":   "pro_10",
	"team":  "team_20",
	"free":  FallbackKey,
}

// Canonicalize normalizes case and known aliases to a canonical plan key.
// It does not guarantee the result is a known key.
func Canonicalize(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return key
}

// Resolve maps a plan key to its Plan. Unknown, empty, or unresolvable keys
// return the zero-seat fallback plan.
func Resolve(key string) Plan {
	if p, ok := catalogue[Canonicalize(key)]; ok {
		return p
	}
	return catalogue[FallbackKey]
}

// SeatLimitOf returns the seat limit for a plan key.
func SeatLimitOf(key string) int {
	return Resolve(key).SeatLimit
}

// Known reports whether the key (after canonicalization) is in the catalogue.
func Known(key string) bool {
	_, ok := catalogue[Canonicalize(key)]
	return ok
}
