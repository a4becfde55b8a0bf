package id_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ambassador/pkg/id"
)

func TestNewToken(t *testing.T) {
	t.Parallel()

	t.Run("length and alphabet", func(t *testing.T) {
		t.Parallel()

		re := regexp.MustCompile(`^[A-Za-z0-9_-]{32}$`)
		for range 200 {
			tok := id.NewToken(32)
			require.Regexp(t, re, tok)
		}
	})

	t.Run("unique", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]struct{}, 1000)
		for range 1000 {
			tok := id.NewToken(32)
			_, dup := seen[tok]
			require.False(t, dup)
			seen[tok] = struct{}{}
		}
	})

	t.Run("covers the alphabet", func(t *testing.T) {
		t.Parallel()

		chars := make(map[rune]struct{})
		for range 200 {
			for _, r := range id.NewToken(32) {
				chars[r] = struct{}{}
			}
		}
		require.Len(t, chars, 64)
	})

	t.Run("zero length", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, id.NewToken(0))
	})
}
