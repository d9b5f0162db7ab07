package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a@example.com", "123456", time.Minute))

	val, err := s.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", val)

	require.NoError(t, s.Del(ctx, "a@example.com"))
	_, err = s.Get(ctx, "a@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a@example.com", "111111", time.Minute))
	require.NoError(t, s.Set(ctx, "a@example.com", "222222", time.Minute))

	val, err := s.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", val)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a@example.com", "123456", -time.Second))
	_, err := s.Get(ctx, "a@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
