package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitrinex/vitrinex/internal/client/social"
)

var errUsage = errors.New("wrong arguments")

func networkArg(args []string, usage string) (social.Network, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w, usage: %s", errUsage, usage)
	}
	return social.ParseNetwork(args[0])
}

// Connect prints the authorization URL for a network.
func (a *App) Connect(ctx context.Context, args []string) error {
	n, err := networkArg(args, "connect <network>")
	if err != nil {
		return err
	}

	authURL, err := a.social.Connect(ctx, n)
	if err != nil {
		return err
	}

	printlnFn("Open this URL in your browser to continue:")
	printlnFn(authURL)
	if a.config.CallbackAddr == "" {
		printlnFn("Then paste the address you are redirected to with: callback <url>")
	}
	return nil
}

// Callback completes a sign-in from a pasted redirect URL. Without an
// argument the URL is read from the next input line.
func (a *App) Callback(ctx context.Context, args []string) error {
	var callbackURL string
	switch len(args) {
	case 0:
		text, err := GetSimpleText(a.reader, "Paste the redirect URL", a.out)
		if err != nil {
			return err
		}
		callbackURL = text
	case 1:
		callbackURL = args[0]
	default:
		return fmt.Errorf("%w, usage: callback [url]", errUsage)
	}

	res, err := a.social.HandleRedirectCallback(ctx, callbackURL)
	if err != nil {
		return err
	}

	switch {
	case res.Error != "":
		printlnFn(signInFailed(res))
	case res.Network == "":
		printlnFn("No sign-in response found in that URL")
	default:
		printlnFn(fmt.Sprintf("%s connected", res.Network))
		if res.Network == social.Pinterest && res.Code != "" {
			return a.Handshake(ctx, nil)
		}
	}
	return nil
}

// signInFailed describes a provider refusal, which may not name a network.
func signInFailed(res social.ConnectionResult) string {
	if res.Network == "" {
		return "Sign-in failed: " + res.Error
	}
	return fmt.Sprintf("%s sign-in failed: %s", res.Network, res.Error)
}

func (a *App) Disconnect(ctx context.Context, args []string) error {
	n, err := networkArg(args, "disconnect <network>")
	if err != nil {
		return err
	}
	if err := a.social.Disconnect(ctx, n); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("%s disconnected", n))
	return nil
}

// Status lists every network with its connection and token state.
func (a *App) Status(ctx context.Context, _ []string) error {
	for _, n := range social.Networks {
		connected, err := a.social.IsConnected(ctx, n)
		if err != nil {
			return err
		}
		token, err := a.social.Token(ctx, n)
		if err != nil {
			return err
		}

		state := "not linked"
		if connected {
			state = "linked"
			if token != "" {
				state += ", token stored"
			}
		}
		printlnFn(fmt.Sprintf("  %-10s %s", n, state))
	}

	pending, err := a.social.Pending(ctx)
	if err != nil {
		return err
	}
	if pending != nil {
		printlnFn(fmt.Sprintf("Waiting for %s sign-in since %s", pending.Provider, pending.CreatedAt.Local().Format("15:04:05")))
	}
	return nil
}

func (a *App) Handshake(ctx context.Context, _ []string) error {
	if a.social.CompletePinterestHandshake(ctx) {
		printlnFn("Pinterest token ready")
		return nil
	}
	return errors.New("pinterest token exchange did not complete, connect again")
}
