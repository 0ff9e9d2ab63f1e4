package social

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/vitrinex/vitrinex/internal/client/repositories/kv"
	"github.com/vitrinex/vitrinex/internal/logging"
)

func testConfig() Config {
	return Config{
		RedirectURL:           "http://127.0.0.1:8787/oauth/callback",
		FacebookAppID:         "fb-app",
		PinterestClientID:     "pin-id",
		PinterestClientSecret: "pin-secret",
		FacebookAuthURL:       "https://www.facebook.com/v19.0/dialog/oauth",
		PinterestAuthURL:      "https://www.pinterest.com/oauth/",
		PinterestTokenURL:     "https://api.pinterest.com/v5/oauth/token",
	}
}

func newTestManager(t *testing.T, cfg Config, client *http.Client) (*Manager, *kv.MemoryRepository) {
	t.Helper()
	repo := kv.NewMemoryRepository()
	m := NewManager(cfg, repo, logging.Discard(), client)
	m.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return m, repo
}

func mustGet(t *testing.T, repo kv.Repository, key string) string {
	t.Helper()
	v, err := repo.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get %s: %v", key, err)
	}
	return string(v)
}
