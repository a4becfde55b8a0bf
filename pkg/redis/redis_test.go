package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ambassador/pkg/redis"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("connects", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		client, err := redis.Open(context.Background(), redis.Config{URL: "redis://" + mr.Addr() + "/0"})
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		require.NoError(t, redis.Healthcheck(client)(context.Background()))
	})

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Open(context.Background(), redis.Config{})
		require.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("invalid scheme", func(t *testing.T) {
		t.Parallel()

		for _, url := range []string{"http://localhost:6379", "localhost:6379", "postgres://localhost"} {
			_, err := redis.Open(context.Background(), redis.Config{URL: url})
			require.ErrorIs(t, err, redis.ErrFailedToParseURL, url)
		}
	})

	t.Run("malformed URL", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Open(context.Background(), redis.Config{URL: "redis://localhost:6379/notanumber"})
		require.ErrorIs(t, err, redis.ErrFailedToParseURL)
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := redis.Open(context.Background(), redis.Config{
			URL:           "redis://" + addr,
			RetryAttempts: 2,
			RetryInterval: time.Millisecond,
			Timeout:       100 * time.Millisecond,
		})
		require.ErrorIs(t, err, redis.ErrConnectionFailed)
	})

	t.Run("cancelled while waiting to retry", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := redis.Open(ctx, redis.Config{
			URL:           "redis://" + addr,
			RetryAttempts: 5,
			RetryInterval: time.Second,
			Timeout:       20 * time.Millisecond,
		})
		require.ErrorIs(t, err, redis.ErrConnectionFailed)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, redis.Healthcheck(nil)(context.Background()), redis.ErrHealthcheckFailed)

	mr := miniredis.RunT(t)
	client, err := redis.Open(context.Background(), redis.Config{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	mr.Close()
	require.ErrorIs(t, redis.Healthcheck(client)(context.Background()), redis.ErrHealthcheckFailed)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestShutdown(t *testing.T) {
	t.Parallel()

	called := false
	require.NoError(t, redis.Shutdown(closerFunc(func() error { called = true; return nil }))(context.Background()))
	require.True(t, called)

	boom := errors.New("boom")
	require.ErrorIs(t, redis.Shutdown(closerFunc(func() error { return boom }))(context.Background()), boom)
}
