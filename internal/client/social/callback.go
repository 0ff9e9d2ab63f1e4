package social

import (
	"context"
	"fmt"
	"net/url"
)

// ConnectionResult is what a redirect callback carried.
type ConnectionResult struct {
	// Network is empty when the URL carried no authorization signal.
	Network     Network `json:"network"`
	AccessToken string  `json:"access_token,omitempty"`
	Code        string  `json:"code,omitempty"`
	// Error is the provider's error (and description) if it refused.
	Error    string `json:"error,omitempty"`
	CleanURL string `json:"clean_url"`
}

// OK reports whether the callback completed a connection.
func (r ConnectionResult) OK() bool {
	return r.Network != "" && r.Error == ""
}

var strippedParams = []string{"auth_return", "code", "state", "error", "error_description"}

// CompleteAuthorization parses a redirect callback URL without side effects.
//
// The network is taken from the first recognised marker among the
// auth_return query parameter and the state parameter (query, then
// fragment). With no marker, a fragment access_token or a query code
// implies facebook. CleanURL is callbackURL without the authorization
// parameters and without the fragment.
func CompleteAuthorization(callbackURL string) (ConnectionResult, error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return ConnectionResult{}, fmt.Errorf("parse callback url: %w", err)
	}

	query := u.Query()
	// ParseQuery keeps every well-formed pair even when it reports an
	// error, the same leniency u.Query() applies to the query side.
	fragment, _ := url.ParseQuery(u.EscapedFragment())

	var res ConnectionResult
	res.AccessToken = fragment.Get("access_token")
	res.Code = query.Get("code")

	state := query.Get("state")
	if state == "" {
		state = fragment.Get("state")
	}
	for _, marker := range []string{query.Get("auth_return"), state} {
		if n, err := ParseNetwork(marker); marker != "" && err == nil {
			res.Network = n
			break
		}
	}
	if res.Network == "" && (res.AccessToken != "" || res.Code != "") {
		res.Network = Facebook
	}

	errParam := firstNonEmpty(query.Get("error"), fragment.Get("error"))
	if errParam != "" {
		res.Error = errParam
		if desc := firstNonEmpty(query.Get("error_description"), fragment.Get("error_description")); desc != "" {
			res.Error += ": " + desc
		}
	}

	for _, p := range strippedParams {
		query.Del(p)
	}
	u.RawQuery = query.Encode()
	u.Fragment = ""
	u.RawFragment = ""
	res.CleanURL = u.String()

	return res, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// HandleRedirectCallback parses callbackURL and persists what it carried:
// the connected flag, a fragment token under the network's token key and a
// Pinterest code under PinterestCodeKey. Provider errors are logged and
// persist nothing. The pending authorization is cleared whenever a network
// was detected.
func (m *Manager) HandleRedirectCallback(ctx context.Context, callbackURL string) (ConnectionResult, error) {
	return m.handleCallback(ctx, callbackURL, false)
}

// HandleSolicitedCallback is HandleRedirectCallback for callbacks nobody
// typed in: it persists nothing and returns ErrUnsolicitedCallback unless a
// pending authorization for the detected network exists.
func (m *Manager) HandleSolicitedCallback(ctx context.Context, callbackURL string) (ConnectionResult, error) {
	return m.handleCallback(ctx, callbackURL, true)
}

func (m *Manager) handleCallback(ctx context.Context, callbackURL string, solicitedOnly bool) (ConnectionResult, error) {
	res, err := CompleteAuthorization(callbackURL)
	if err != nil {
		return res, err
	}
	if res.Network == "" {
		return res, nil
	}

	if solicitedOnly {
		pending, err := m.Pending(ctx)
		if err != nil {
			return res, err
		}
		if pending == nil || pending.Provider != res.Network || pending.ExpectedState != string(res.Network) {
			m.log.Warn(ctx, "rejecting unsolicited callback", "network", res.Network)
			return res, fmt.Errorf("%w: %s", ErrUnsolicitedCallback, res.Network)
		}
	}

	if err := m.consumePending(ctx, res.Network); err != nil {
		return res, err
	}

	if res.Error != "" {
		m.log.Warn(ctx, "provider refused authorization", "network", res.Network, "error", res.Error)
		return res, nil
	}

	values := map[string][]byte{ConnectedKey(res.Network): connectedValue}
	if res.AccessToken != "" {
		values[TokenKey(res.Network)] = []byte(res.AccessToken)
	}
	if res.Code != "" && res.Network == Pinterest {
		values[PinterestCodeKey] = []byte(res.Code)
	}
	if err := m.repo.SetMany(ctx, values); err != nil {
		return res, err
	}

	m.log.Info(ctx, "connected", "network", res.Network,
		"token", res.AccessToken != "", "code", res.Code != "")
	return res, nil
}

func (m *Manager) consumePending(ctx context.Context, n Network) error {
	pending, err := m.Pending(ctx)
	if err != nil {
		return err
	}
	if pending != nil && pending.Provider != n {
		m.log.Warn(ctx, "callback does not match pending authorization",
			"pending", pending.Provider, "callback", n)
	}
	return m.repo.Delete(ctx, PendingKey)
}
