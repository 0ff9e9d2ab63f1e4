package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitrinex/vitrinex/internal/client/backup"
	"github.com/vitrinex/vitrinex/internal/client/config"
	"github.com/vitrinex/vitrinex/internal/client/repositories/kv"
	"github.com/vitrinex/vitrinex/internal/client/securestore"
	"github.com/vitrinex/vitrinex/internal/client/social"
	"github.com/vitrinex/vitrinex/internal/common"
	"github.com/vitrinex/vitrinex/internal/logging"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func testAppConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.CallbackAddr = ""
	c.FacebookAppID = "fb-app"
	c.PinterestClientID = "pin-id"
	c.PinterestClientSecret = "pin-secret"
	return c
}

func newTestApp(t *testing.T, c *config.Config, input string) (*App, *kv.MemoryRepository, *[]string) {
	t.Helper()
	out := captureOutput(t)
	repo := kv.NewMemoryRepository()
	a := newApp(c, logging.Discard(), repo, nopCloser{}, strings.NewReader(input), io.Discard)
	a.workDir = t.TempDir()
	return a, repo, out
}

func stubPasswords(t *testing.T, values ...string) {
	t.Helper()
	orig := readPassword
	i := 0
	readPassword = func(int) ([]byte, error) {
		v := values[i%len(values)]
		i++
		return []byte(v), nil
	}
	t.Cleanup(func() { readPassword = orig })
}

func outputContains(t *testing.T, out *[]string, s string) {
	t.Helper()
	assert.Contains(t, strings.Join(*out, "\n"), s)
}

func TestConnect_PrintsAuthorizationURL(t *testing.T) {
	a, _, out := newTestApp(t, testAppConfig(), "")
	ctx := context.Background()

	require.NoError(t, a.Connect(ctx, []string{"Facebook"}))
	outputContains(t, out, "client_id=fb-app")
	outputContains(t, out, "callback <url>")

	require.NoError(t, a.Status(ctx, nil))
	outputContains(t, out, "Waiting for facebook sign-in")
}

func TestConnect_Errors(t *testing.T) {
	a, _, _ := newTestApp(t, testAppConfig(), "")
	ctx := context.Background()

	assert.ErrorIs(t, a.Connect(ctx, nil), errUsage)
	assert.ErrorIs(t, a.Connect(ctx, []string{"myspace"}), social.ErrUnknownNetwork)

	c := testAppConfig()
	c.FacebookAppID = ""
	b, _, _ := newTestApp(t, c, "")
	assert.ErrorIs(t, b.Connect(ctx, []string{"facebook"}), social.ErrMissingClientID)
}

func TestCallback_ConnectsAndDisconnects(t *testing.T) {
	a, repo, out := newTestApp(t, testAppConfig(), "")
	ctx := context.Background()

	require.NoError(t, a.Callback(ctx, []string{"http://127.0.0.1:8787/oauth/callback#access_token=xyz&state=facebook"}))
	outputContains(t, out, "facebook connected")

	tok, err := repo.Get(ctx, social.TokenKey(social.Facebook))
	require.NoError(t, err)
	assert.Equal(t, "xyz", string(tok))
	assert.Equal(t, "(1 linked)", a.status(ctx))

	require.NoError(t, a.Status(ctx, nil))
	outputContains(t, out, "linked, token stored")

	require.NoError(t, a.Disconnect(ctx, []string{"facebook"}))
	outputContains(t, out, "facebook disconnected")
	assert.Equal(t, "", a.status(ctx))
}

func TestCallback_ReadsURLFromInput(t *testing.T) {
	a, _, out := newTestApp(t, testAppConfig(), "http://127.0.0.1:8787/oauth/callback?auth_return=instagram&error=access_denied\n")
	ctx := context.Background()

	require.NoError(t, a.Callback(ctx, nil))
	outputContains(t, out, "instagram sign-in failed: access_denied")

	ok, err := a.social.IsConnected(ctx, social.Instagram)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCallback_NoSignal(t *testing.T) {
	a, _, out := newTestApp(t, testAppConfig(), "")
	require.NoError(t, a.Callback(context.Background(), []string{"http://127.0.0.1:8787/"}))
	outputContains(t, out, "No sign-in response")
}

func TestCallback_RefusalWithoutNetworkShowsError(t *testing.T) {
	a, _, out := newTestApp(t, testAppConfig(), "")
	require.NoError(t, a.Callback(context.Background(),
		[]string{"http://127.0.0.1:8787/oauth/callback?error=access_denied&error_description=Denied"}))
	assert.Equal(t, []string{"Sign-in failed: access_denied: Denied"}, *out)
}

func TestAnnounce_RedrawsPrompt(t *testing.T) {
	a, _, out := newTestApp(t, testAppConfig(), "")
	ctx := context.Background()

	require.NoError(t, a.Callback(ctx, []string{"http://127.0.0.1:8787/oauth/callback?auth_return=linkedin"}))

	*out = nil
	a.announce(ctx, social.ConnectionResult{Network: social.LinkedIn})
	assert.Equal(t, []string{"\nlinkedin connected", "vx(1 linked)> "}, *out)

	*out = nil
	a.announce(ctx, social.ConnectionResult{Error: "access_denied"})
	assert.Equal(t, []string{"\nSign-in failed: access_denied", "vx(1 linked)> "}, *out)

	*out = nil
	a.announce(ctx, social.ConnectionResult{})
	assert.Empty(t, *out)
}

func TestCallback_PinterestRunsHandshake(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, _ := r.BasicAuth()
		assert.Equal(t, "pin-id", user)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"pina_tok","token_type":"bearer"}`))
	}))
	t.Cleanup(srv.Close)

	c := testAppConfig()
	c.PinterestTokenURL = srv.URL
	a, repo, out := newTestApp(t, c, "")
	ctx := context.Background()

	require.NoError(t, a.Callback(ctx, []string{"http://127.0.0.1:8787/oauth/callback?code=abc&state=pinterest"}))
	outputContains(t, out, "Pinterest token ready")

	tok, err := repo.Get(ctx, social.TokenKey(social.Pinterest))
	require.NoError(t, err)
	assert.Equal(t, "pina_tok", string(tok))
}

func TestHandshake_NothingPending(t *testing.T) {
	a, _, _ := newTestApp(t, testAppConfig(), "")
	assert.Error(t, a.Handshake(context.Background(), nil))
}

func TestSetGetRemove(t *testing.T) {
	a, repo, out := newTestApp(t, testAppConfig(), "{\"plan\":\"pro\"}\n\nhello there\n\n")
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, []string{common.PlanConfigKey}))
	require.NoError(t, a.Set(ctx, []string{"note"}))

	raw, err := repo.Get(ctx, "note")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hello")

	*out = nil
	require.NoError(t, a.Get(ctx, []string{common.PlanConfigKey}))
	require.NoError(t, a.Get(ctx, []string{"note"}))
	assert.Equal(t, []string{"{\n  \"plan\": \"pro\"\n}", `"hello there"`}, *out)

	*out = nil
	require.NoError(t, a.Keys(ctx, nil))
	assert.Equal(t, []string{
		"  note [encrypted]",
		"  vitrinex_plan_config [encrypted, feature]",
	}, *out)

	require.NoError(t, a.Remove(ctx, []string{"note"}))
	*out = nil
	require.NoError(t, a.Get(ctx, []string{"note"}))
	assert.Equal(t, []string{"(not found)"}, *out)
}

func TestKeys_MarksPlainValues(t *testing.T) {
	a, repo, out := newTestApp(t, testAppConfig(), "")
	ctx := context.Background()

	require.NoError(t, a.Keys(ctx, nil))
	assert.Equal(t, []string{"(empty)"}, *out)

	require.NoError(t, repo.Set(ctx, "legacy", []byte(`{"a":1}`)))
	*out = nil
	require.NoError(t, a.Keys(ctx, nil))
	assert.Equal(t, []string{"  legacy [plain]"}, *out)
}

func TestDeviceKeyIsReserved(t *testing.T) {
	a, _, _ := newTestApp(t, testAppConfig(), "x\n\n")
	ctx := context.Background()

	assert.ErrorIs(t, a.Set(ctx, []string{securestore.DeviceKeyName}), errReservedKey)
	assert.ErrorIs(t, a.Remove(ctx, []string{securestore.DeviceKeyName}), errReservedKey)
	assert.ErrorIs(t, a.Get(ctx, nil), errUsage)
}

func TestExport_WritesFileWithoutOverwriting(t *testing.T) {
	a, _, out := newTestApp(t, testAppConfig(), "[1,2]\n\n")
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, []string{"list"}))
	require.NoError(t, a.Export(ctx, []string{"list"}))
	require.NoError(t, a.Export(ctx, []string{"list"}))

	first, err := os.ReadFile(filepath.Join(a.workDir, "list.json"))
	require.NoError(t, err)
	assert.Equal(t, "[\n  1,\n  2\n]", string(first))

	_, err = os.Stat(filepath.Join(a.workDir, "list (1).json"))
	require.NoError(t, err)
	outputContains(t, out, "Written to")

	assert.ErrorIs(t, a.Export(ctx, []string{"missing"}), common.ErrNotFound)
}

// bucket serves presigned URLs of the form <server>/<key>.
type bucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	srv     *httptest.Server
}

func newBucket(t *testing.T) *bucket {
	t.Helper()
	b := &bucket{objects: map[string][]byte{}}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		key := strings.TrimPrefix(r.URL.Path, "/")
		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			b.objects[key] = body
		case http.MethodGet:
			body, ok := b.objects[key]
			if !ok {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write(body)
		}
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *bucket) PresignPut(_ context.Context, key string) (string, error) {
	return b.srv.URL + "/" + key, nil
}

func (b *bucket) PresignGet(_ context.Context, key string) (string, error) {
	return b.srv.URL + "/" + key, nil
}

func (b *bucket) onlyKey(t *testing.T) string {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.Len(t, b.objects, 1)
	for k := range b.objects {
		return k
	}
	return ""
}

func TestBackupRestore(t *testing.T) {
	stubPasswords(t, "correct horse")
	a, _, out := newTestApp(t, testAppConfig(), "{\"n\":1}\n\n")
	ctx := context.Background()

	b := newBucket(t)
	a.backups = backup.NewService(a.repo, b, http.DefaultClient, logging.Discard())

	require.NoError(t, a.Set(ctx, []string{"doc"}))
	require.NoError(t, a.Backup(ctx, nil))
	key := b.onlyKey(t)
	outputContains(t, out, "Backup stored as "+key)

	// a fresh device replaces everything
	fresh := kv.NewMemoryRepository()
	a2 := newApp(a.config, logging.Discard(), fresh, nopCloser{}, strings.NewReader(""), io.Discard)
	a2.backups = backup.NewService(fresh, b, http.DefaultClient, logging.Discard())

	require.NoError(t, a2.Restore(ctx, []string{key}))
	outputContains(t, out, "Restored 2 entries")

	*out = nil
	require.NoError(t, a2.Get(ctx, []string{"doc"}))
	assert.Equal(t, []string{"{\n  \"n\": 1\n}"}, *out)
}

func TestBackup_Errors(t *testing.T) {
	ctx := context.Background()

	stubPasswords(t, "one", "two")
	a, _, _ := newTestApp(t, testAppConfig(), "")
	a.backups = backup.NewService(a.repo, newBucket(t), http.DefaultClient, logging.Discard())
	assert.EqualError(t, a.Backup(ctx, nil), "passphrases do not match")

	c := testAppConfig()
	b, _, _ := newTestApp(t, c, "")
	stubPasswords(t, "same")
	assert.ErrorIs(t, b.Backup(ctx, nil), backup.ErrNotConfigured)
	assert.ErrorIs(t, b.Restore(ctx, []string{"backups/x.json"}), backup.ErrNotConfigured)
	assert.ErrorIs(t, b.Restore(ctx, nil), errUsage)
}
