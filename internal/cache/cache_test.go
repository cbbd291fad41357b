package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/lessonpress/internal/testutil"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "lessonpress:render:maths:PRIMARY_2:pupil", Key("Maths", "PRIMARY_2", "pupil"))
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}
	c.Set(ctx, "k", []byte("v"))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	c.Purge(ctx)
	assert.NoError(t, c.Close())
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	m.Set(ctx, "a", []byte("pdf"))
	got, ok := m.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, []byte("pdf"), got)

	now = now.Add(2 * time.Minute)
	_, ok = m.Get(ctx, "a")
	assert.False(t, ok, "entry should have expired")
	assert.Equal(t, 0, m.Len())

	m.Set(ctx, "b", []byte("1"))
	m.Set(ctx, "c", []byte("2"))
	m.Purge(ctx)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryNoTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	m.Set(ctx, "a", []byte("x"))
	m.now = func() time.Time { return time.Now().Add(24 * time.Hour) }
	_, ok := m.Get(ctx, "a")
	assert.True(t, ok)
}

func TestNewRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := NewRedis(ctx, RedisConfig{Addr: "127.0.0.1:1", Logger: testutil.DiscardLogger()})
	assert.Error(t, err)

	_, err = NewRedis(ctx, RedisConfig{})
	assert.Error(t, err)
}

// TestRedis runs against a live server when LESSONPRESS_TEST_REDIS_ADDR is set.
func TestRedis(t *testing.T) {
	addr := os.Getenv("LESSONPRESS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LESSONPRESS_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	r, err := NewRedis(ctx, RedisConfig{Addr: addr, TTL: time.Minute, Logger: testutil.DiscardLogger()})
	require.NoError(t, err)
	defer r.Close()

	key := Key("Maths", "PRIMARY_2", "pupil")
	r.Set(ctx, key, []byte("%PDF-1.3"))
	got, ok := r.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []byte("%PDF-1.3"), got)

	r.Purge(ctx)
	_, ok = r.Get(ctx, key)
	assert.False(t, ok)
}
