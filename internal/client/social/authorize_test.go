package social

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestAuthorizationURL_Facebook(t *testing.T) {
	m, _ := newTestManager(t, testConfig(), nil)

	raw, err := m.AuthorizationURL(Facebook)
	require.NoError(t, err)

	u := parseURL(t, raw)
	assert.Equal(t, "www.facebook.com", u.Host)
	assert.Equal(t, "/v19.0/dialog/oauth", u.Path)

	q := u.Query()
	assert.Equal(t, "fb-app", q.Get("client_id"))
	assert.Equal(t, "token", q.Get("response_type"))
	assert.Equal(t, "facebook", q.Get("state"))
	assert.Equal(t, facebookScope, q.Get("scope"))
	assert.Equal(t, "http://127.0.0.1:8787/oauth/callback?auth_return=facebook", q.Get("redirect_uri"))
}

func TestAuthorizationURL_InstagramFallsBackToFacebookAppID(t *testing.T) {
	m, _ := newTestManager(t, testConfig(), nil)

	raw, err := m.AuthorizationURL(Instagram)
	require.NoError(t, err)

	q := parseURL(t, raw).Query()
	assert.Equal(t, "fb-app", q.Get("client_id"))
	assert.Equal(t, instagramScope, q.Get("scope"))
	assert.Equal(t, "instagram", q.Get("state"))

	cfg := testConfig()
	cfg.InstagramAppID = "ig-app"
	m, _ = newTestManager(t, cfg, nil)
	raw, err = m.AuthorizationURL(Instagram)
	require.NoError(t, err)
	assert.Equal(t, "ig-app", parseURL(t, raw).Query().Get("client_id"))
}

func TestAuthorizationURL_Pinterest(t *testing.T) {
	m, _ := newTestManager(t, testConfig(), nil)

	raw, err := m.AuthorizationURL(Pinterest)
	require.NoError(t, err)

	u := parseURL(t, raw)
	assert.Equal(t, "www.pinterest.com", u.Host)
	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "pin-id", q.Get("client_id"))
	assert.Equal(t, "pinterest", q.Get("state"))
	assert.Equal(t, "boards:read,pins:read,pins:write", q.Get("scope"))
	assert.Equal(t, "http://127.0.0.1:8787/oauth/callback", q.Get("redirect_uri"))
	assert.Empty(t, q.Get("client_secret"))
}

func TestAuthorizationURL_SimulatedNetworks(t *testing.T) {
	m, _ := newTestManager(t, testConfig(), nil)

	for _, n := range []Network{LinkedIn, Twitter, TikTok} {
		raw, err := m.AuthorizationURL(n)
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:8787/oauth/callback?auth_return="+string(n), raw)
	}
}

func TestAuthorizationURL_Errors(t *testing.T) {
	cfg := testConfig()
	cfg.FacebookAppID = ""
	cfg.PinterestClientID = ""
	m, _ := newTestManager(t, cfg, nil)

	_, err := m.AuthorizationURL(Facebook)
	assert.ErrorIs(t, err, ErrMissingClientID)
	_, err = m.AuthorizationURL(Instagram)
	assert.ErrorIs(t, err, ErrMissingClientID)
	_, err = m.AuthorizationURL(Pinterest)
	assert.ErrorIs(t, err, ErrMissingClientID)
	_, err = m.AuthorizationURL(Network("myspace"))
	assert.ErrorIs(t, err, ErrUnknownNetwork)
}

func TestConnect_PersistsPendingAuthorization(t *testing.T) {
	m, repo := newTestManager(t, testConfig(), nil)
	ctx := context.Background()

	raw, err := m.Connect(ctx, Pinterest)
	require.NoError(t, err)
	assert.Contains(t, raw, "response_type=code")

	var p PendingAuthorization
	require.NoError(t, json.Unmarshal([]byte(mustGet(t, repo, PendingKey)), &p))
	assert.Equal(t, PendingAuthorization{
		Provider:      Pinterest,
		ExpectedState: "pinterest",
		CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, p)

	got, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, &p, got)
}

func TestConnect_FailureLeavesNoPending(t *testing.T) {
	cfg := testConfig()
	cfg.FacebookAppID = ""
	m, repo := newTestManager(t, cfg, nil)

	_, err := m.Connect(context.Background(), Facebook)
	require.ErrorIs(t, err, ErrMissingClientID)
	assert.Empty(t, mustGet(t, repo, PendingKey))
}

func TestPending_UnreadableIsDiscarded(t *testing.T) {
	m, repo := newTestManager(t, testConfig(), nil)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, PendingKey, []byte("{")))

	p, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
}
