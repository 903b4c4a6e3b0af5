package binding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBindingCode(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	code, err := NewBindingCode("firm-abc", 10*time.Minute, now)
	require.NoError(t, err)

	assert.NotEmpty(t, code.Code())
	assert.Equal(t, "firm-abc", code.TenantID())
	assert.Equal(t, now, code.IssuedAt())
	assert.Equal(t, now.Add(10*time.Minute), code.ExpiresAt())
	assert.False(t, code.Consumed())
}

func TestNewBindingCode_DefaultTTL(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	code, err := NewBindingCode("firm-abc", 0, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(DefaultCodeTTL), code.ExpiresAt())
}

func TestNewBindingCode_RequiresTenant(t *testing.T) {
	_, err := NewBindingCode("", time.Minute, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenant ID is required")
}

func TestNewBindingCode_UniqueTokens(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewBindingCode("firm-abc", time.Minute, now)
		require.NoError(t, err)
		assert.False(t, seen[code.Code()], "token collision")
		seen[code.Code()] = true
	}
}

func TestBindingCode_IsExpired(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	code, err := NewBindingCode("firm-abc", 10*time.Minute, now)
	require.NoError(t, err)

	assert.False(t, code.IsExpired(now))
	assert.False(t, code.IsExpired(now.Add(10*time.Minute)))
	assert.True(t, code.IsExpired(now.Add(10*time.Minute+time.Second)))
}

func TestBindingCode_MarkConsumed(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	code, err := NewBindingCode("firm-abc", 10*time.Minute, now)
	require.NoError(t, err)

	require.NoError(t, code.MarkConsumed(now.Add(time.Minute)))
	assert.True(t, code.Consumed())

	// consumed flag never reverts, a second consume fails
	err = code.MarkConsumed(now.Add(2 * time.Minute))
	assert.ErrorIs(t, err, ErrCodeAlreadyUsed)
}

func TestBindingCode_MarkConsumed_Expired(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	code, err := NewBindingCode("firm-abc", time.Minute, now)
	require.NoError(t, err)

	err = code.MarkConsumed(now.Add(2 * time.Minute))
	assert.ErrorIs(t, err, ErrCodeExpired)
	assert.False(t, code.Consumed())
}
