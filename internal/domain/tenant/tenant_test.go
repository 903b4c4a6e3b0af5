package tenant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexora/internal/domain/plan"
)

func TestNewTenant(t *testing.T) {
	tn, err := NewTenant("firm-abc", "ABC Law", "basic_5")
	require.NoError(t, err)

	assert.Equal(t, "firm-abc", tn.TenantID())
	assert.Equal(t, "ABC Law", tn.DisplayName())
	assert.Equal(t, "basic_5", tn.PlanKey())
	assert.True(t, tn.IsActive())
	assert.True(t, tn.IsBindable())
	assert.Equal(t, 5, tn.SeatLimit())
}

func TestNewTenant_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		tenantID string
		wantErr  string
	}{
		{name: "empty tenant ID", tenantID: "", wantErr: "tenant ID is required"},
		{name: "too long tenant ID", tenantID: strings.Repeat("a", 101), wantErr: "tenant ID too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTenant(tt.tenantID, "name", "basic_5")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewTenant_CanonicalizesPlanKey(t *testing.T) {
	tn, err := NewTenant("firm-abc", "", "basic")
	require.NoError(t, err)
	assert.Equal(t, "basic_5", tn.PlanKey())
}

func TestTenant_UnknownPlanResolvesToZeroSeats(t *testing.T) {
	tn, err := NewTenant("firm-abc", "", "mystery_plan")
	require.NoError(t, err)
	assert.Equal(t, 0, tn.SeatLimit())
}

func TestTenant_SetPlan(t *testing.T) {
	tn, err := NewTenant("firm-abc", "", "basic_5")
	require.NoError(t, err)

	tn.SetPlan("pro")
	assert.Equal(t, "pro_10", tn.PlanKey())
	assert.Equal(t, 10, tn.SeatLimit())

	tn.SetPlan("unlimited")
	assert.Equal(t, plan.UnlimitedSeats, tn.SeatLimit())
}

func TestTenant_DeactivateActivate(t *testing.T) {
	tn, err := NewTenant("firm-abc", "", "basic_5")
	require.NoError(t, err)

	tn.Deactivate()
	assert.False(t, tn.IsActive())
	assert.False(t, tn.IsBindable())

	tn.Activate()
	assert.True(t, tn.IsBindable())
}

func TestReconstructTenant(t *testing.T) {
	src, err := NewTenant("firm-abc", "ABC Law", "team_20")
	require.NoError(t, err)
	src.SetID(42)

	got := ReconstructTenant(
		src.ID(),
		src.TenantID(),
		src.DisplayName(),
		src.PlanKey(),
		src.IsActive(),
		src.CreatedAt(),
		src.UpdatedAt(),
	)

	assert.Equal(t, uint(42), got.ID())
	assert.Equal(t, src.TenantID(), got.TenantID())
	assert.Equal(t, src.PlanKey(), got.PlanKey())
	assert.Equal(t, 20, got.SeatLimit())
}
