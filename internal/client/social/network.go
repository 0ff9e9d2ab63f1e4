package social

import (
	"errors"
	"fmt"
	"strings"
)

type Network string

const (
	Facebook  Network = "facebook"
	Instagram Network = "instagram"
	LinkedIn  Network = "linkedin"
	Twitter   Network = "twitter"
	TikTok    Network = "tiktok"
	Pinterest Network = "pinterest"
)

// Networks is the fixed set of supported networks in display order.
var Networks = []Network{Facebook, Instagram, LinkedIn, Twitter, TikTok, Pinterest}

var (
	ErrUnknownNetwork  = errors.New("unknown network")
	ErrMissingClientID = errors.New("missing client id")

	// ErrUnsolicitedCallback means a callback arrived for a network no
	// Connect call is waiting on.
	ErrUnsolicitedCallback = errors.New("no sign-in in progress")
)

// ParseNetwork maps a case-insensitive name to a Network.
func ParseNetwork(s string) (Network, error) {
	n := Network(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Networks {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownNetwork, s)
}

const (
	connectedKeyPrefix = "vitrinex_social_connected_"
	tokenKeyPrefix     = "vitrinex_social_token_"

	// PinterestCodeKey holds an authorization code awaiting exchange.
	PinterestCodeKey = "vitrinex_social_code_pinterest"
	// PendingKey holds the PendingAuthorization written by Connect.
	PendingKey = "vitrinex_social_pending"
)

func ConnectedKey(n Network) string { return connectedKeyPrefix + string(n) }

func TokenKey(n Network) string { return tokenKeyPrefix + string(n) }
