package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource supplies the bearer credential attached to resource server
// requests. Retrieval may block (e.g. an interactive login behind the
// identity provider), so every call takes a context.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns the same token on every call. Used for
// development setups and tests.
type StaticTokenSource struct {
	token string
}

func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

func (s *StaticTokenSource) Token(ctx context.Context) (string, error) {
	return s.token, nil
}

// OAuthConfig configures the client-credentials token source.
type OAuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Audience     string
}

// OAuthTokenSource fetches access tokens via the OAuth2 client-credentials
// grant and caches them until shortly before expiry. Expiry is taken from
// the token's exp claim when present, the token_type response otherwise.
type OAuthTokenSource struct {
	cfg    OAuthConfig
	client *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewOAuthTokenSource(cfg OAuthConfig, client *http.Client) *OAuthTokenSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &OAuthTokenSource{cfg: cfg, client: client}
}

func (s *OAuthTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.expires) {
		return s.token, nil
	}

	token, err := s.fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch access token: %w", err)
	}

	s.token = token
	s.expires = tokenExpiry(token)
	return s.token, nil
}

func (s *OAuthTokenSource) fetch(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	if s.cfg.Audience != "" {
		form.Set("audience", s.cfg.Audience)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty access_token")
	}
	return body.AccessToken, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// source only needs a refresh hint, validation is the server's job. Tokens
// without a readable exp are refreshed after a fixed grace period.
func tokenExpiry(token string) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time.Add(-30 * time.Second)
		}
	}
	return time.Now().Add(5 * time.Minute)
}
