package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", "v"))

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	now = now.Add(time.Minute)
	_, ok, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Hour)

	require.NoError(t, m.Set(ctx, "k", "v"))
	require.NoError(t, m.Delete(ctx, "k"))

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTableStatus(t *testing.T) {
	ctx := context.Background()
	status := NewTableStatus(NewMemory(time.Hour))

	assert.False(t, status.IsActive(ctx, "Resume-dev"))
	status.MarkActive(ctx, "Resume-dev")
	assert.True(t, status.IsActive(ctx, "Resume-dev"))
	assert.False(t, status.IsActive(ctx, "Resume-prod"))

	status.Forget(ctx, "Resume-dev")
	assert.False(t, status.IsActive(ctx, "Resume-dev"))
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	r := NewRedis(addr, time.Minute)
	defer r.Close()
	require.NoError(t, r.Ping(ctx))

	require.NoError(t, r.Set(ctx, "test:key", "value"))
	v, ok, err := r.Get(ctx, "test:key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	require.NoError(t, r.Delete(ctx, "test:key"))
	_, ok, err = r.Get(ctx, "test:key")
	require.NoError(t, err)
	assert.False(t, ok)
}
