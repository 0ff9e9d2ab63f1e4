package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// PendingAuthorization is persisted before the user leaves for the provider.
type PendingAuthorization struct {
	Provider      Network   `json:"provider"`
	ExpectedState string    `json:"expected_state"`
	CreatedAt     time.Time `json:"created_at"`
}

func withQuery(base string, params map[string]string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", base, err)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (m *Manager) pinterestOAuth() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     m.cfg.PinterestClientID,
		ClientSecret: m.cfg.PinterestClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   m.cfg.PinterestAuthURL,
			TokenURL:  m.cfg.PinterestTokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		RedirectURL: m.cfg.RedirectURL,
		// Pinterest expects one comma-joined scope parameter.
		Scopes: []string{pinterestScope},
	}
}

func (m *Manager) facebookDialogURL(n Network, appID, scope string) (string, error) {
	if appID == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingClientID, n)
	}
	redirect, err := withQuery(m.cfg.RedirectURL, map[string]string{"auth_return": string(n)})
	if err != nil {
		return "", err
	}
	return withQuery(m.cfg.FacebookAuthURL, map[string]string{
		"client_id":     appID,
		"redirect_uri":  redirect,
		"response_type": "token",
		"scope":         scope,
		"state":         string(n),
	})
}

// AuthorizationURL builds the URL that starts linking n.
//
// Facebook and Instagram use the implicit token flow, Pinterest the
// authorization-code flow. LinkedIn, Twitter and TikTok have no dialog: the
// URL points straight back at the redirect URL with an auth_return marker.
func (m *Manager) AuthorizationURL(n Network) (string, error) {
	switch n {
	case Facebook:
		return m.facebookDialogURL(n, m.cfg.FacebookAppID, facebookScope)
	case Instagram:
		appID := m.cfg.InstagramAppID
		if appID == "" {
			appID = m.cfg.FacebookAppID
		}
		return m.facebookDialogURL(n, appID, instagramScope)
	case Pinterest:
		if m.cfg.PinterestClientID == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingClientID, n)
		}
		return m.pinterestOAuth().AuthCodeURL(string(Pinterest)), nil
	case LinkedIn, Twitter, TikTok:
		return withQuery(m.cfg.RedirectURL, map[string]string{"auth_return": string(n)})
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownNetwork, n)
	}
}

// Connect records a PendingAuthorization for n and returns the URL the user
// must open.
func (m *Manager) Connect(ctx context.Context, n Network) (string, error) {
	authURL, err := m.AuthorizationURL(n)
	if err != nil {
		return "", err
	}

	pending, err := json.Marshal(PendingAuthorization{
		Provider:      n,
		ExpectedState: string(n),
		CreatedAt:     m.now().UTC(),
	})
	if err != nil {
		return "", err
	}
	if err := m.repo.Set(ctx, PendingKey, pending); err != nil {
		return "", err
	}

	m.log.Info(ctx, "authorization started", "network", n)
	return authURL, nil
}

// Pending returns the stored PendingAuthorization, or nil.
func (m *Manager) Pending(ctx context.Context) (*PendingAuthorization, error) {
	raw, err := m.repo.Get(ctx, PendingKey)
	if err != nil || raw == nil {
		return nil, err
	}
	var p PendingAuthorization
	if err := json.Unmarshal(raw, &p); err != nil {
		m.log.Warn(ctx, "discarding unreadable pending authorization", "error", err)
		return nil, nil
	}
	return &p, nil
}
