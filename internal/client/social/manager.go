package social

import (
	"context"
	"net/http"
	"time"

	"github.com/vitrinex/vitrinex/internal/client/repositories/kv"
	"github.com/vitrinex/vitrinex/internal/logging"
)

// Config carries provider endpoints and client credentials.
type Config struct {
	RedirectURL string

	FacebookAppID  string
	InstagramAppID string // falls back to FacebookAppID

	PinterestClientID     string
	PinterestClientSecret string

	FacebookAuthURL   string
	PinterestAuthURL  string
	PinterestTokenURL string
}

const (
	facebookScope  = "public_profile,pages_show_list,pages_read_engagement,pages_manage_posts"
	instagramScope = "instagram_basic,instagram_content_publish,pages_show_list"
	pinterestScope = "boards:read,pins:read,pins:write"
)

var connectedValue = []byte("true")

type Manager struct {
	cfg        Config
	repo       kv.Repository
	log        logging.Logger
	httpClient *http.Client
	now        func() time.Time
}

// NewManager builds a Manager. A nil httpClient means http.DefaultClient.
func NewManager(cfg Config, repo kv.Repository, log logging.Logger, httpClient *http.Client) *Manager {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Manager{
		cfg:        cfg,
		repo:       repo,
		log:        log.With("module", "social"),
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Disconnect clears the connected flag, the stored token and, for
// Pinterest, any code awaiting exchange. It is idempotent.
func (m *Manager) Disconnect(ctx context.Context, n Network) error {
	if _, err := ParseNetwork(string(n)); err != nil {
		return err
	}
	if err := m.repo.Delete(ctx, ConnectedKey(n)); err != nil {
		return err
	}
	if err := m.repo.Delete(ctx, TokenKey(n)); err != nil {
		return err
	}
	if n == Pinterest {
		if err := m.repo.Delete(ctx, PinterestCodeKey); err != nil {
			return err
		}
	}
	m.log.Info(ctx, "disconnected", "network", n)
	return nil
}

func (m *Manager) IsConnected(ctx context.Context, n Network) (bool, error) {
	v, err := m.repo.Get(ctx, ConnectedKey(n))
	if err != nil {
		return false, err
	}
	return string(v) == string(connectedValue), nil
}

// Token returns the stored bearer token for n, or "" when none is stored.
func (m *Manager) Token(ctx context.Context, n Network) (string, error) {
	v, err := m.repo.Get(ctx, TokenKey(n))
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// ActiveConnections lists connected networks in Networks order.
func (m *Manager) ActiveConnections(ctx context.Context) ([]Network, error) {
	var active []Network
	for _, n := range Networks {
		ok, err := m.IsConnected(ctx, n)
		if err != nil {
			return nil, err
		}
		if ok {
			active = append(active, n)
		}
	}
	return active, nil
}
