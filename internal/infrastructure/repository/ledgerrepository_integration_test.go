package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lexora/internal/domain/binding"
	"lexora/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = gdb.AutoMigrate(&TenantModel{}, &BindingCodeModel{}, &IdentityBindingModel{})
	require.NoError(t, err)

	return gdb
}

func createWaitlisted(t *testing.T, repo *LedgerRepository, externalID, tenantID string, requestedAt time.Time) *binding.IdentityBinding {
	t.Helper()
	b, err := binding.NewWaitlistedBinding(externalID, tenantID, "", requestedAt)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestLedgerRepository_CreateAndFind(t *testing.T) {
	repo := NewLedgerRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	b, err := binding.NewActiveBinding("U001", "firm-abc", "Alice", now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, b))
	assert.NotZero(t, b.RowID())

	found, err := repo.FindByExternalID(ctx, "U001")
	require.NoError(t, err)
	assert.Equal(t, b.SID(), found.SID())
	assert.Equal(t, "firm-abc", found.TenantID())
	assert.Equal(t, "Alice", found.DisplayName())
	assert.True(t, found.IsActive())
	require.NotNil(t, found.BoundAt())

	_, err = repo.FindByExternalID(ctx, "U-missing")
	assert.ErrorIs(t, err, binding.ErrBindingNotFound)
}

func TestLedgerRepository_DuplicateExternalID(t *testing.T) {
	repo := NewLedgerRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	b1, err := binding.NewActiveBinding("U001", "firm-abc", "", now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, b1))

	// one ledger row per identity, enforced by the unique index
	b2, err := binding.NewWaitlistedBinding("U001", "firm-xyz", "", now)
	require.NoError(t, err)
	assert.Error(t, repo.Create(ctx, b2))
}

func TestLedgerRepository_FindActiveByExternalID(t *testing.T) {
	repo := NewLedgerRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	createWaitlisted(t, repo, "U001", "firm-abc", now)

	_, err := repo.FindActiveByExternalID(ctx, "U001")
	assert.ErrorIs(t, err, binding.ErrBindingNotFound)

	b, err := repo.FindByExternalID(ctx, "U001")
	require.NoError(t, err)
	require.NoError(t, b.Activate(now))
	require.NoError(t, repo.Update(ctx, b))

	found, err := repo.FindActiveByExternalID(ctx, "U001")
	require.NoError(t, err)
	assert.True(t, found.IsActive())
}

func TestLedgerRepository_ActiveCountForTenant(t *testing.T) {
	repo := NewLedgerRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	for _, id := range []string{"U001", "U002"} {
		b, err := binding.NewActiveBinding(id, "firm-abc", "", now)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, b))
	}
	createWaitlisted(t, repo, "U-wait", "firm-abc", now)

	other, err := binding.NewActiveBinding("U-other", "firm-xyz", "", now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other))

	count, err := repo.ActiveCountForTenant(ctx, "firm-abc")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// deactivation is reflected immediately
	b, err := repo.FindActiveByExternalID(ctx, "U002")
	require.NoError(t, err)
	require.NoError(t, b.Deactivate(now))
	require.NoError(t, repo.Update(ctx, b))

	count, err = repo.ActiveCountForTenant(ctx, "firm-abc")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLedgerRepository_OldestInactiveForTenant(t *testing.T) {
	repo := NewLedgerRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second).Add(-time.Hour)

	t.Run("orders by request time", func(t *testing.T) {
		createWaitlisted(t, repo, "U-late", "firm-abc", base.Add(10*time.Minute))
		createWaitlisted(t, repo, "U-early", "firm-abc", base)

		cand, err := repo.OldestInactiveForTenant(ctx, "firm-abc", "")
		require.NoError(t, err)
		assert.Equal(t, "U-early", cand.ExternalID())
	})

	t.Run("never-bound rows come before previously bound ones", func(t *testing.T) {
		// U-old bound an hour before anyone enlisted, then unbound
		old, err := binding.NewActiveBinding("U-old", "firm-old", "", base.Add(-time.Hour))
		require.NoError(t, err)
		require.NoError(t, old.Deactivate(base.Add(-time.Hour)))
		require.NoError(t, repo.Create(ctx, old))

		createWaitlisted(t, repo, "U-fresh", "firm-old", base)

		cand, err := repo.OldestInactiveForTenant(ctx, "firm-old", "")
		require.NoError(t, err)
		assert.Equal(t, "U-fresh", cand.ExternalID())
	})

	t.Run("excludes the given identity", func(t *testing.T) {
		createWaitlisted(t, repo, "U-self", "firm-solo", base)

		_, err := repo.OldestInactiveForTenant(ctx, "firm-solo", "U-self")
		assert.ErrorIs(t, err, binding.ErrBindingNotFound)
	})

	t.Run("ignores active rows", func(t *testing.T) {
		b, err := binding.NewActiveBinding("U-active", "firm-busy", "", base)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, b))

		_, err = repo.OldestInactiveForTenant(ctx, "firm-busy", "")
		assert.ErrorIs(t, err, binding.ErrBindingNotFound)
	})
}
