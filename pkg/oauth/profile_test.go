package oauth_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ambassador/pkg/oauth"
)

func TestProfile(t *testing.T) {
	t.Parallel()

	body := []byte(`{"id":123,"login":"octo","name":"","avatar_url":"https://avatars.example/1","plan":{"name":"pro"}}`)

	t.Run("lookup and identity", func(t *testing.T) {
		t.Parallel()

		p, err := oauth.ParseProfile("github", body, false)
		require.NoError(t, err)

		require.Equal(t, "pro", p.Lookup("plan.name").String())
		require.Equal(t, "123", p.String("id"))

		id := p.Identity(oauth.DefaultIdentityMapping())
		require.Equal(t, oauth.Identity{
			ID:      "123",
			Name:    "octo",
			Picture: "https://avatars.example/1",
		}, id)
	})

	t.Run("with returns a modified copy", func(t *testing.T) {
		t.Parallel()

		p, err := oauth.ParseProfile("github", body, false)
		require.NoError(t, err)

		q, err := p.With("email", "octo@example.com")
		require.NoError(t, err)

		require.Equal(t, "octo@example.com", q.String("email"))
		require.Empty(t, p.String("email"))
		_, ok := p.Get("email")
		require.False(t, ok)
	})

	t.Run("fields are a copy", func(t *testing.T) {
		t.Parallel()

		p, err := oauth.NewProfile("idp", map[string]any{"id": "1"})
		require.NoError(t, err)

		f := p.Fields()
		f["id"] = "2"
		require.Equal(t, "1", p.String("id"))
	})

	t.Run("marshals raw document", func(t *testing.T) {
		t.Parallel()

		p, err := oauth.ParseProfile("discord", append([]byte("undefined"), body...), true)
		require.NoError(t, err)

		data, err := json.Marshal(p)
		require.NoError(t, err)
		require.JSONEq(t, string(body), string(data))
	})
}
