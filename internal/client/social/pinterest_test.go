package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)

		assert.Equal(t, http.MethodPost, r.Method)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "client credentials must use HTTP Basic")
		assert.Equal(t, "pin-id", user)
		assert.Equal(t, "pin-secret", pass)

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "abc", r.PostForm.Get("code"))
		assert.Equal(t, "http://127.0.0.1:8787/oauth/callback", r.PostForm.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCompletePinterestHandshake_Success(t *testing.T) {
	var hits int32
	srv := tokenServer(t, http.StatusOK, `{"access_token":"pina_tok","token_type":"bearer","expires_in":2592000}`, &hits)

	cfg := testConfig()
	cfg.PinterestTokenURL = srv.URL
	m, repo := newTestManager(t, cfg, srv.Client())
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, PinterestCodeKey, []byte("abc")))

	assert.True(t, m.CompletePinterestHandshake(ctx))
	assert.Equal(t, "pina_tok", mustGet(t, repo, TokenKey(Pinterest)))
	assert.Empty(t, mustGet(t, repo, PinterestCodeKey))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	// stored token short-circuits
	assert.True(t, m.CompletePinterestHandshake(ctx))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestCompletePinterestHandshake_FailureDropsCode(t *testing.T) {
	var hits int32
	srv := tokenServer(t, http.StatusBadRequest, `{"error":"invalid_grant"}`, &hits)

	cfg := testConfig()
	cfg.PinterestTokenURL = srv.URL
	m, repo := newTestManager(t, cfg, srv.Client())
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, PinterestCodeKey, []byte("abc")))

	assert.False(t, m.CompletePinterestHandshake(ctx))
	assert.Empty(t, mustGet(t, repo, TokenKey(Pinterest)))
	assert.Empty(t, mustGet(t, repo, PinterestCodeKey))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "no retry")
}

func TestCompletePinterestHandshake_MissingAccessToken(t *testing.T) {
	var hits int32
	srv := tokenServer(t, http.StatusOK, `{"token_type":"bearer"}`, &hits)

	cfg := testConfig()
	cfg.PinterestTokenURL = srv.URL
	m, repo := newTestManager(t, cfg, srv.Client())
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, PinterestCodeKey, []byte("abc")))

	assert.False(t, m.CompletePinterestHandshake(ctx))
	assert.Empty(t, mustGet(t, repo, PinterestCodeKey))
}

func TestCompletePinterestHandshake_NoCode(t *testing.T) {
	m, _ := newTestManager(t, testConfig(), nil)
	assert.False(t, m.CompletePinterestHandshake(context.Background()))
}

func TestCompletePinterestHandshake_MissingSecret(t *testing.T) {
	cfg := testConfig()
	cfg.PinterestClientSecret = ""
	m, repo := newTestManager(t, cfg, nil)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, PinterestCodeKey, []byte("abc")))

	assert.False(t, m.CompletePinterestHandshake(ctx))
	assert.Empty(t, mustGet(t, repo, PinterestCodeKey))
}
