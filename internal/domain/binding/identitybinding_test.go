package binding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

func TestNewActiveBinding(t *testing.T) {
	b, err := NewActiveBinding("U001", "firm-abc", "Alice", testNow)
	require.NoError(t, err)

	assert.NotEmpty(t, b.SID())
	assert.Equal(t, "U001", b.ExternalID())
	assert.Equal(t, "firm-abc", b.TenantID())
	assert.True(t, b.IsActive())
	assert.False(t, b.NeverBound())
	require.NotNil(t, b.BoundAt())
	assert.Equal(t, testNow, *b.BoundAt())
	assert.Equal(t, testNow, b.RequestedAt())
}

func TestNewWaitlistedBinding(t *testing.T) {
	b, err := NewWaitlistedBinding("U001", "firm-abc", "Alice", testNow)
	require.NoError(t, err)

	assert.False(t, b.IsActive())
	assert.True(t, b.NeverBound())
	assert.Nil(t, b.BoundAt())
	assert.Equal(t, testNow, b.RequestedAt())
}

func TestNewBinding_ValidationErrors(t *testing.T) {
	_, err := NewActiveBinding("", "firm-abc", "", testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "external ID is required")

	_, err = NewWaitlistedBinding("U001", "", "", testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenant ID is required")
}

func TestIdentityBinding_ActivateDeactivate(t *testing.T) {
	b, err := NewWaitlistedBinding("U001", "firm-abc", "", testNow)
	require.NoError(t, err)

	later := testNow.Add(time.Hour)
	require.NoError(t, b.Activate(later))
	assert.True(t, b.IsActive())
	require.NotNil(t, b.BoundAt())
	assert.Equal(t, later, *b.BoundAt())

	// double activation is rejected
	err = b.Activate(later.Add(time.Minute))
	require.Error(t, err)

	require.NoError(t, b.Deactivate(later.Add(time.Hour)))
	assert.False(t, b.IsActive())
	// boundAt is retained after deactivation
	assert.False(t, b.NeverBound())
}

func TestIdentityBinding_DeactivateNotActive(t *testing.T) {
	b, err := NewWaitlistedBinding("U001", "firm-abc", "", testNow)
	require.NoError(t, err)

	err = b.Deactivate(testNow)
	assert.ErrorIs(t, err, ErrNotBound)
}

func TestIdentityBinding_MoveWaitlist(t *testing.T) {
	b, err := NewWaitlistedBinding("U001", "firm-abc", "", testNow)
	require.NoError(t, err)

	require.NoError(t, b.MoveWaitlist("firm-xyz", testNow.Add(time.Minute)))
	assert.Equal(t, "firm-xyz", b.TenantID())
	// requestedAt is immutable across moves
	assert.Equal(t, testNow, b.RequestedAt())
}

func TestIdentityBinding_MoveWaitlist_ActiveRejected(t *testing.T) {
	b, err := NewActiveBinding("U001", "firm-abc", "", testNow)
	require.NoError(t, err)

	err = b.MoveWaitlist("firm-xyz", testNow)
	assert.ErrorIs(t, err, ErrIdentityBoundElsewhere)
	assert.Equal(t, "firm-abc", b.TenantID())
}

func TestIdentityBinding_SetDisplayName(t *testing.T) {
	b, err := NewWaitlistedBinding("U001", "firm-abc", "Alice", testNow)
	require.NoError(t, err)

	b.SetDisplayName("Alice S.", testNow.Add(time.Minute))
	assert.Equal(t, "Alice S.", b.DisplayName())

	// empty names are ignored
	b.SetDisplayName("", testNow.Add(2*time.Minute))
	assert.Equal(t, "Alice S.", b.DisplayName())
}

func TestReconstructIdentityBinding(t *testing.T) {
	boundAt := testNow.Add(time.Minute)
	b := ReconstructIdentityBinding(
		7, "lb_abc123", "U001", "firm-abc", "Alice",
		StatusActive, &boundAt, testNow, testNow, boundAt,
	)

	assert.Equal(t, uint(7), b.RowID())
	assert.Equal(t, "lb_abc123", b.SID())
	assert.True(t, b.IsActive())
	assert.Equal(t, boundAt, *b.BoundAt())
}
