package social

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// CompletePinterestHandshake makes sure a Pinterest token is stored.
//
// With a token already stored it returns true. Otherwise a pending code is
// exchanged at the token endpoint using HTTP Basic client authentication.
// The code is deleted whatever the outcome, so a failed exchange needs a
// fresh login. Failures are logged and reported as false.
func (m *Manager) CompletePinterestHandshake(ctx context.Context) bool {
	token, err := m.Token(ctx, Pinterest)
	if err != nil {
		m.log.Error(ctx, "read pinterest token", "error", err)
		return false
	}
	if token != "" {
		return true
	}

	code, err := m.repo.Get(ctx, PinterestCodeKey)
	if err != nil {
		m.log.Error(ctx, "read pinterest code", "error", err)
		return false
	}
	if len(code) == 0 {
		return false
	}

	accessToken, exchangeErr := m.exchangePinterestCode(ctx, string(code))

	if err := m.repo.Delete(ctx, PinterestCodeKey); err != nil {
		m.log.Error(ctx, "delete pinterest code", "error", err)
	}

	if exchangeErr != nil {
		m.log.Error(ctx, "pinterest token exchange failed", "error", exchangeErr)
		return false
	}

	if err := m.repo.Set(ctx, TokenKey(Pinterest), []byte(accessToken)); err != nil {
		m.log.Error(ctx, "store pinterest token", "error", err)
		return false
	}

	m.log.Info(ctx, "pinterest token stored")
	return true
}

func (m *Manager) exchangePinterestCode(ctx context.Context, code string) (string, error) {
	if m.cfg.PinterestClientID == "" || m.cfg.PinterestClientSecret == "" {
		return "", ErrMissingClientID
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	tok, err := m.pinterestOAuth().Exchange(ctx, code)
	if err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", errors.New("token response without access_token")
	}
	return tok.AccessToken, nil
}
