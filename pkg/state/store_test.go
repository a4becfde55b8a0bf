package state_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ambassador/pkg/state"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("session requires key", func(t *testing.T) {
		t.Parallel()
		_, err := state.New(state.Config{Kind: state.KindSession})
		require.ErrorIs(t, err, state.ErrMissingKey)
	})

	t.Run("pkce requires key", func(t *testing.T) {
		t.Parallel()
		_, err := state.New(state.Config{Kind: state.KindPKCE, Method: state.PKCES256})
		require.ErrorIs(t, err, state.ErrMissingKey)
	})

	t.Run("pkce requires a supported method", func(t *testing.T) {
		t.Parallel()
		_, err := state.New(state.Config{Kind: state.KindPKCE, Key: "k"})
		require.ErrorIs(t, err, state.ErrUnsupportedMethod)

		_, err = state.New(state.Config{Kind: state.KindPKCE, Key: "k", Method: "md5"})
		require.ErrorIs(t, err, state.ErrUnsupportedMethod)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		s, err := state.New(state.Config{Kind: state.KindSession, Key: "k", Method: state.PKCES256})
		require.NoError(t, err)
		require.Equal(t, state.DefaultMaxAge, s.MaxAge())
		require.Equal(t, state.PKCENone, s.Method())
		require.Equal(t, "session", s.Kind().String())
	})
}

func TestStore_None(t *testing.T) {
	t.Parallel()

	s, err := state.New(state.Config{Kind: state.KindNone})
	require.NoError(t, err)

	issued, err := s.Issue(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, issued.State)

	_, err = s.Verify(context.Background(), nil, "anything")
	require.NoError(t, err)
}

func TestStore_Session(t *testing.T) {
	t.Parallel()

	newStore := func(t *testing.T, opts ...state.Option) *state.Store {
		t.Helper()
		s, err := state.New(state.Config{Kind: state.KindSession, Key: "oauth2:idp.example"}, opts...)
		require.NoError(t, err)
		return s
	}

	t.Run("issue then verify succeeds once", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := newStore(t)
		storage := state.NewMapStorage()

		issued, err := s.Issue(ctx, storage)
		require.NoError(t, err)
		require.Regexp(t, `^[A-Za-z0-9_-]{32}$`, issued.State)
		require.Len(t, issued.ID, 26)
		require.Empty(t, issued.Challenge)

		verified, err := s.Verify(ctx, storage, issued.State)
		require.NoError(t, err)
		require.Equal(t, issued.ID, verified.ID)
		require.Empty(t, verified.Verifier)

		_, err = s.Verify(ctx, storage, issued.State)
		var verr *state.VerificationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, state.ReasonMissing, verr.Reason)
	})

	t.Run("mismatch consumes the attempt", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := newStore(t)
		storage := state.NewMapStorage()

		issued, err := s.Issue(ctx, storage)
		require.NoError(t, err)

		_, err = s.Verify(ctx, storage, "bad")
		var verr *state.VerificationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, state.ReasonMismatch, verr.Reason)
		require.Equal(t, "Invalid authorization request state.", verr.Message())
		require.Zero(t, storage.Len())

		_, err = s.Verify(ctx, storage, issued.State)
		require.ErrorAs(t, err, &verr)
		require.Equal(t, state.ReasonMissing, verr.Reason)
	})

	t.Run("empty presented state is a mismatch", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := newStore(t)
		storage := state.NewMapStorage()

		_, err := s.Issue(ctx, storage)
		require.NoError(t, err)

		_, err = s.Verify(ctx, storage, "")
		var verr *state.VerificationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, state.ReasonMismatch, verr.Reason)
	})

	t.Run("nothing stored", func(t *testing.T) {
		t.Parallel()

		_, err := newStore(t).Verify(context.Background(), state.NewMapStorage(), "x")
		var verr *state.VerificationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, state.ReasonMissing, verr.Reason)
		require.Equal(t, "Unable to verify authorization request state.", verr.Message())
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		s, err := state.New(state.Config{Kind: state.KindSession, Key: "k", MaxAge: time.Minute}, state.WithClock(clock))
		require.NoError(t, err)

		ctx := context.Background()
		storage := state.NewMapStorage()
		issued, err := s.Issue(ctx, storage)
		require.NoError(t, err)

		now = now.Add(2 * time.Minute)
		_, err = s.Verify(ctx, storage, issued.State)
		var verr *state.VerificationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, state.ReasonExpired, verr.Reason)
	})

	t.Run("requires storage", func(t *testing.T) {
		t.Parallel()

		_, err := newStore(t).Issue(context.Background(), nil)
		require.ErrorIs(t, err, state.ErrNoStorage)

		_, err = newStore(t).Verify(context.Background(), nil, "x")
		require.ErrorIs(t, err, state.ErrNoStorage)
		require.False(t, state.IsVerificationError(err))
	})

	t.Run("storage failure is not a verification error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		_, err := newStore(t).Verify(context.Background(), failingStorage{err: boom}, "x")
		require.ErrorIs(t, err, boom)
		require.False(t, state.IsVerificationError(err))

		_, err = newStore(t).Issue(context.Background(), failingStorage{err: boom})
		require.ErrorIs(t, err, boom)
	})

	t.Run("custom token generator", func(t *testing.T) {
		t.Parallel()

		s := newStore(t, state.WithTokenGenerator(func() string { return "good" }))
		issued, err := s.Issue(context.Background(), state.NewMapStorage())
		require.NoError(t, err)
		require.Equal(t, "good", issued.State)
	})
}

func TestStore_PKCE(t *testing.T) {
	t.Parallel()

	for _, method := range []state.PKCEMethod{state.PKCEPlain, state.PKCES256} {
		t.Run(string(method), func(t *testing.T) {
			t.Parallel()

			s, err := state.New(state.Config{Kind: state.KindPKCE, Key: "k", Method: method})
			require.NoError(t, err)

			ctx := context.Background()
			storage := state.NewMapStorage()

			issued, err := s.Issue(ctx, storage)
			require.NoError(t, err)
			require.Equal(t, method, issued.Method)
			require.NotEmpty(t, issued.Challenge)

			verified, err := s.Verify(ctx, storage, issued.State)
			require.NoError(t, err)
			require.NotEmpty(t, verified.Verifier)

			challenge, err := state.Challenge(verified.Verifier, method)
			require.NoError(t, err)
			require.Equal(t, issued.Challenge, challenge)
		})
	}
}

type failingStorage struct{ err error }

func (f failingStorage) Put(context.Context, string, state.Record, time.Duration) error {
	return f.err
}

func (f failingStorage) Take(context.Context, string) (state.Record, error) {
	return state.Record{}, f.err
}
