package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ambassador/pkg/cache"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newRedis(t *testing.T) (*miniredis.Miniredis, goredis.UniversalClient) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestRedis_GetSet(t *testing.T) {
	t.Parallel()

	t.Run("round trips structs with prefix", func(t *testing.T) {
		t.Parallel()

		mr, client := newRedis(t)
		c := cache.NewRedis[payload](client, nil, cache.WithPrefix("attempts"))

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "k", payload{Name: "a", Count: 2}, time.Minute))
		require.True(t, mr.Exists("attempts:k"))
		require.Equal(t, time.Minute, mr.TTL("attempts:k"))

		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, payload{Name: "a", Count: 2}, got)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		_, client := newRedis(t)
		c := cache.NewRedis[payload](client, nil)

		_, err := c.Get(context.Background(), "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("zero TTL uses default and negative persists", func(t *testing.T) {
		t.Parallel()

		mr, client := newRedis(t)
		c := cache.NewRedis[string](client, nil, cache.WithRedisDefaultTTL(30*time.Second))

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "default", "v", 0))
		require.NoError(t, c.Set(ctx, "forever", "v", -1))

		require.Equal(t, 30*time.Second, mr.TTL("default"))
		require.Zero(t, mr.TTL("forever"))
	})

	t.Run("expired key", func(t *testing.T) {
		t.Parallel()

		mr, client := newRedis(t)
		c := cache.NewRedis[string](client, nil)

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "k", "v", time.Second))
		mr.FastForward(2 * time.Second)

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("corrupt value", func(t *testing.T) {
		t.Parallel()

		mr, client := newRedis(t)
		c := cache.NewRedis[payload](client, nil)
		require.NoError(t, mr.Set("k", "not-json"))

		_, err := c.Get(context.Background(), "k")
		require.ErrorIs(t, err, cache.ErrUnmarshal)
	})
}

func TestRedis_Take(t *testing.T) {
	t.Parallel()

	mr, client := newRedis(t)
	c := cache.NewRedis[payload](client, nil, cache.WithPrefix("attempts"))

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", payload{Name: "once"}, time.Minute))

	got, err := c.Take(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "once", got.Name)
	require.False(t, mr.Exists("attempts:k"))

	_, err = c.Take(ctx, "k")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestRedis_Delete(t *testing.T) {
	t.Parallel()

	mr, client := newRedis(t)
	c := cache.NewRedis[string](client, nil)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	require.False(t, mr.Exists("k"))
	require.NoError(t, c.Close())
}
