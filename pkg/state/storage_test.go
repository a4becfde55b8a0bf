package state_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ambassador/pkg/cache"
	"github.com/dmitrymomot/ambassador/pkg/session"
	"github.com/dmitrymomot/ambassador/pkg/state"
)

func sampleRecord() state.Record {
	return state.Record{
		ID:        "01J0000000000000000000000",
		State:     "abc",
		Verifier:  "verifier",
		Challenge: "challenge",
		Method:    state.PKCES256,
		IssuedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSessionStorage(t *testing.T) {
	t.Parallel()

	t.Run("put and take", func(t *testing.T) {
		t.Parallel()

		sess := session.New("sid", time.Now().Add(time.Hour))
		st := state.NewSessionStorage(sess)
		ctx := context.Background()

		require.NoError(t, st.Put(ctx, "oauth2:idp", sampleRecord(), time.Minute))
		require.True(t, sess.IsDirty())

		rec, err := st.Take(ctx, "oauth2:idp")
		require.NoError(t, err)
		require.Equal(t, sampleRecord(), rec)

		_, err = st.Take(ctx, "oauth2:idp")
		require.ErrorIs(t, err, state.ErrNotFound)
	})

	t.Run("decodes values restored from JSON", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(map[string]any{"oauth2:idp": sampleRecord()})
		require.NoError(t, err)

		sess := session.New("sid", time.Now().Add(time.Hour))
		require.NoError(t, json.Unmarshal(data, &sess.Values))

		rec, err := state.NewSessionStorage(sess).Take(context.Background(), "oauth2:idp")
		require.NoError(t, err)
		require.Equal(t, sampleRecord(), rec)
	})

	t.Run("corrupt value", func(t *testing.T) {
		t.Parallel()

		sess := session.New("sid", time.Now().Add(time.Hour))
		sess.SetValue("oauth2:idp", "not a record")

		_, err := state.NewSessionStorage(sess).Take(context.Background(), "oauth2:idp")
		require.ErrorIs(t, err, state.ErrCorruptRecord)
	})
}

func TestCacheStorage(t *testing.T) {
	t.Parallel()

	t.Run("memory", func(t *testing.T) {
		t.Parallel()

		records := cache.NewMemory[state.Record]()
		t.Cleanup(func() { _ = records.Close() })

		ctx := context.Background()
		alice := state.NewCacheStorage(records, "alice")
		bob := state.NewCacheStorage(records, "bob")

		require.NoError(t, alice.Put(ctx, "k", sampleRecord(), time.Minute))

		_, err := bob.Take(ctx, "k")
		require.ErrorIs(t, err, state.ErrNotFound)

		rec, err := alice.Take(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, sampleRecord(), rec)

		_, err = alice.Take(ctx, "k")
		require.ErrorIs(t, err, state.ErrNotFound)
	})

	t.Run("redis", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		records := cache.NewRedis[state.Record](client, nil, cache.WithPrefix("ambassador"))
		st := state.NewCacheStorage(records, "browser-1")
		ctx := context.Background()

		require.NoError(t, st.Put(ctx, "oauth2:idp", sampleRecord(), time.Minute))
		require.True(t, mr.Exists("ambassador:browser-1:oauth2:idp"))

		rec, err := st.Take(ctx, "oauth2:idp")
		require.NoError(t, err)
		require.Equal(t, sampleRecord(), rec)
		require.False(t, mr.Exists("ambassador:browser-1:oauth2:idp"))

		require.NoError(t, mr.Set("ambassador:browser-1:oauth2:idp", "garbage"))
		_, err = st.Take(ctx, "oauth2:idp")
		require.ErrorIs(t, err, state.ErrCorruptRecord)
	})

	t.Run("store round trip over redis", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		s, err := state.New(state.Config{Kind: state.KindPKCE, Key: "oauth2:idp", Method: state.PKCES256})
		require.NoError(t, err)

		st := state.NewCacheStorage(cache.NewRedis[state.Record](client, nil), "browser-1")
		ctx := context.Background()

		issued, err := s.Issue(ctx, st)
		require.NoError(t, err)
		require.Equal(t, state.DefaultMaxAge, mr.TTL("browser-1:oauth2:idp"))

		verified, err := s.Verify(ctx, st, issued.State)
		require.NoError(t, err)
		require.NotEmpty(t, verified.Verifier)
	})
}
