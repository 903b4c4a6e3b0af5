package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexora/internal/domain/plan"
	"lexora/internal/domain/tenant"
)

func TestChangePlanUseCase_RejectsUnknownPlan(t *testing.T) {
	f := newFixture(t)
	f.addTenant(t, "firm-abc", "basic_5")

	_, err := f.change.Execute(context.Background(), "firm-abc", "mega_platinum")
	assert.ErrorIs(t, err, plan.ErrUnknownPlan)

	// the tenant keeps its plan
	tn, err := f.tenants.GetByTenantID(context.Background(), "firm-abc")
	require.NoError(t, err)
	assert.Equal(t, "basic_5", tn.PlanKey())
}

func TestChangePlanUseCase_TenantNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.change.Execute(context.Background(), "firm-ghost", "pro_10")
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
}

func TestChangePlanUseCase_UpgradePromotesOldestFirst(t *testing.T) {
	f := newFixture(t)
	f.addTenant(t, "firm-abc", "basic_5")
	fillSeats(t, f, "firm-abc", 5)

	for _, id := range []string{"U-wait-1", "U-wait-2", "U-wait-3"} {
		_, err := f.enlist.Execute(context.Background(), "firm-abc", id, "")
		require.NoError(t, err)
	}

	result, err := f.change.Execute(context.Background(), "firm-abc", "pro_10")
	require.NoError(t, err)

	assert.Equal(t, "pro_10", result.PlanKey)
	assert.Equal(t, []string{"U-wait-1", "U-wait-2", "U-wait-3"}, result.Promoted)
	assert.Equal(t, int64(8), f.activeCount(t, "firm-abc"))
}

func TestChangePlanUseCase_UpgradeStopsAtNewLimit(t *testing.T) {
	f := newFixture(t)
	f.addTenant(t, "firm-abc", "basic_5")
	fillSeats(t, f, "firm-abc", 5)

	// seven in the queue but the upgrade only frees five more seats
	for i := 0; i < 7; i++ {
		_, err := f.enlist.Execute(context.Background(), "firm-abc", externalID(100+i), "")
		require.NoError(t, err)
	}

	result, err := f.change.Execute(context.Background(), "firm-abc", "pro_10")
	require.NoError(t, err)

	assert.Len(t, result.Promoted, 5)
	assert.Equal(t, int64(10), f.activeCount(t, "firm-abc"))
}

func TestChangePlanUseCase_DowngradeKeepsOverQuotaActives(t *testing.T) {
	f := newFixture(t)
	f.addTenant(t, "firm-abc", "pro_10")
	for i := 0; i < 8; i++ {
		f.bind(t, "firm-abc", externalID(i))
	}

	result, err := f.change.Execute(context.Background(), "firm-abc", "basic_5")
	require.NoError(t, err)

	// existing bindings are never evicted on downgrade
	assert.Empty(t, result.Promoted)
	assert.Equal(t, int64(8), f.activeCount(t, "firm-abc"))

	// but no new binding fits until the count drops below the new limit
	_, err = f.issue.Execute(context.Background(), "firm-abc", 0)
	assert.Error(t, err)
}

func TestChangePlanUseCase_PromotedIsNeverNil(t *testing.T) {
	f := newFixture(t)
	f.addTenant(t, "firm-abc", "basic_5")

	result, err := f.change.Execute(context.Background(), "firm-abc", "team_20")
	require.NoError(t, err)

	assert.NotNil(t, result.Promoted)
	assert.Empty(t, result.Promoted)
}

func TestChangePlanUseCase_AcceptsAliases(t *testing.T) {
	f := newFixture(t)
	f.addTenant(t, "firm-abc", "basic_5")

	result, err := f.change.Execute(context.Background(), "firm-abc", "Pro")
	require.NoError(t, err)
	assert.Equal(t, "pro_10", result.PlanKey)
}

func TestChangePlanUseCase_UnlimitedDrainsWaitlist(t *testing.T) {
	f := newFixture(t)
	f.addTenant(t, "firm-abc", "basic_5")
	fillSeats(t, f, "firm-abc", 5)

	for i := 0; i < 30; i++ {
		_, err := f.enlist.Execute(context.Background(), "firm-abc", externalID(200+i), "")
		require.NoError(t, err)
	}

	result, err := f.change.Execute(context.Background(), "firm-abc", "unlimited")
	require.NoError(t, err)

	assert.Len(t, result.Promoted, 30)
	assert.Equal(t, int64(35), f.activeCount(t, "firm-abc"))
}
