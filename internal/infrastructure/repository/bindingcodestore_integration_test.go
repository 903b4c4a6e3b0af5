package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexora/internal/domain/binding"
	"lexora/internal/shared/logger"
)

func TestBindingCodeStore_IssueAndPeek(t *testing.T) {
	store := NewBindingCodeStore(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	code, err := store.Issue(ctx, "firm-abc", 10*time.Minute, now)
	require.NoError(t, err)
	assert.NotZero(t, code.RowID())
	assert.Equal(t, "firm-abc", code.TenantID())

	found, err := store.Peek(ctx, code.Code())
	require.NoError(t, err)
	assert.Equal(t, code.Code(), found.Code())
	assert.False(t, found.Consumed())

	_, err = store.Peek(ctx, "bc_missing")
	assert.ErrorIs(t, err, binding.ErrCodeNotFound)
}

func TestBindingCodeStore_TryConsume(t *testing.T) {
	store := NewBindingCodeStore(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	code, err := store.Issue(ctx, "firm-abc", 10*time.Minute, now)
	require.NoError(t, err)

	consumed, err := store.TryConsume(ctx, code.Code(), now)
	require.NoError(t, err)
	assert.True(t, consumed.Consumed())

	// single use
	_, err = store.TryConsume(ctx, code.Code(), now)
	assert.ErrorIs(t, err, binding.ErrCodeAlreadyUsed)
}

func TestBindingCodeStore_TryConsume_Expired(t *testing.T) {
	store := NewBindingCodeStore(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	code, err := store.Issue(ctx, "firm-abc", time.Minute, now)
	require.NoError(t, err)

	_, err = store.TryConsume(ctx, code.Code(), now.Add(2*time.Minute))
	assert.ErrorIs(t, err, binding.ErrCodeExpired)

	// the expired row was deleted on the failed consume
	_, err = store.Peek(ctx, code.Code())
	assert.ErrorIs(t, err, binding.ErrCodeNotFound)
}

func TestBindingCodeStore_SweepExpired(t *testing.T) {
	store := NewBindingCodeStore(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	expired1, err := store.Issue(ctx, "firm-abc", time.Minute, now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = store.Issue(ctx, "firm-abc", time.Minute, now.Add(-time.Hour))
	require.NoError(t, err)
	live, err := store.Issue(ctx, "firm-abc", time.Hour, now)
	require.NoError(t, err)

	// consumed rows stay for audit even when past expiry
	burned, err := store.Issue(ctx, "firm-abc", time.Minute, now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = store.TryConsume(ctx, burned.Code(), now.Add(-time.Hour))
	require.NoError(t, err)

	swept, err := store.SweepExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), swept)

	_, err = store.Peek(ctx, expired1.Code())
	assert.ErrorIs(t, err, binding.ErrCodeNotFound)

	_, err = store.Peek(ctx, live.Code())
	assert.NoError(t, err)

	_, err = store.Peek(ctx, burned.Code())
	assert.NoError(t, err)
}
