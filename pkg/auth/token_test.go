package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticTokenSource(t *testing.T) {
	src := NewStaticTokenSource("fixed-token")
	token, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed-token", token)
}

func TestOAuthTokenSource(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
		assert.Equal(t, "console", r.FormValue("client_id"))
		assert.Equal(t, "s3cret", r.FormValue("client_secret"))

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "opaque-token",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	src := NewOAuthTokenSource(OAuthConfig{
		TokenURL:     srv.URL,
		ClientID:     "console",
		ClientSecret: "s3cret",
	}, srv.Client())

	token, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", token)

	// An opaque token has no readable exp, so the grace period applies and
	// the cached token is reused within it.
	token, err = src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", token)
	assert.Equal(t, 1, calls)
}

func TestOAuthTokenSourceErrors(t *testing.T) {
	t.Run("non-200 from token endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		src := NewOAuthTokenSource(OAuthConfig{TokenURL: srv.URL}, srv.Client())
		_, err := src.Token(context.Background())
		assert.Error(t, err)
	})

	t.Run("empty access_token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"expires_in": 60})
		}))
		defer srv.Close()

		src := NewOAuthTokenSource(OAuthConfig{TokenURL: srv.URL}, srv.Client())
		_, err := src.Token(context.Background())
		assert.Error(t, err)
	})
}

func TestTokenExpiryWithoutExpClaim(t *testing.T) {
	// Opaque tokens fall back to the fixed grace period rather than never
	// refreshing.
	expiry := tokenExpiry("not-a-jwt")
	assert.False(t, expiry.IsZero())
}
