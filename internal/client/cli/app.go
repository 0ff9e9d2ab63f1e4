package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/vitrinex/vitrinex/internal/client/backup"
	"github.com/vitrinex/vitrinex/internal/client/config"
	"github.com/vitrinex/vitrinex/internal/client/repositories/kv"
	"github.com/vitrinex/vitrinex/internal/client/securestore"
	"github.com/vitrinex/vitrinex/internal/client/social"
	"github.com/vitrinex/vitrinex/internal/client/storage"
	"github.com/vitrinex/vitrinex/internal/filex"
	"github.com/vitrinex/vitrinex/internal/logging"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	repo    kv.Repository
	closer  io.Closer
	store   *securestore.Store
	social  *social.Manager
	backups *backup.Service
	reader  *bufio.Reader
	out     io.Writer

	// workDir is where export writes files.
	workDir string
}

const exportDir = "exports"

func socialConfig(c *config.Config) social.Config {
	return social.Config{
		RedirectURL:           c.RedirectURL,
		FacebookAppID:         c.FacebookAppID,
		InstagramAppID:        c.InstagramAppID,
		PinterestClientID:     c.PinterestClientID,
		PinterestClientSecret: c.PinterestClientSecret,
		FacebookAuthURL:       c.FacebookAuthURL,
		PinterestAuthURL:      c.PinterestAuthURL,
		PinterestTokenURL:     c.PinterestTokenURL,
	}
}

// NewApp opens the configured store and builds the services on top of it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(c.LogLevel, os.Stderr)

	repo, closer, err := storage.Open(ctx, c)
	if err != nil {
		log.Error(ctx, "error initializing storage", "error", err)
		return nil, err
	}

	exports, err := filex.EnsureSubdDir(exportDir)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	app := newApp(c, log, repo, closer, os.Stdin, os.Stdout)
	app.workDir = exports
	return app, nil
}

func newApp(c *config.Config, log logging.Logger, repo kv.Repository, closer io.Closer, in io.Reader, out io.Writer) *App {
	httpClient := &http.Client{Timeout: c.HTTPTimeout}

	var presigner backup.Presigner
	if c.BackupConfigured() {
		presigner = backup.NewS3Presigner(backup.S3Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		})
	}

	return &App{
		config:  c,
		log:     log,
		repo:    repo,
		closer:  closer,
		store:   securestore.New(repo, log),
		social:  social.NewManager(socialConfig(c), repo, log, httpClient),
		backups: backup.NewService(repo, presigner, httpClient, log),
		reader:  bufio.NewReader(in),
		out:     out,
		workDir: ".",
	}
}

// Run starts the callback listener (when configured) and the REPL. It
// returns when the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() {
		if err := a.closer.Close(); err != nil {
			a.log.Error(ctx, "close storage", "error", err)
		}
	}()

	if a.config.CallbackAddr != "" {
		srv := social.NewCallbackServer(a.config.CallbackAddr, a.social, a.log, func(res social.ConnectionResult) {
			a.announce(ctx, res)
		})
		go func() {
			if err := srv.Run(ctx); err != nil {
				a.log.Error(ctx, "callback listener stopped", "error", err)
			}
		}()
	}

	printlnFn("Welcome to VitrineX CLI (type 'help' for commands)")
	runREPL(ctx, a, func() string { return a.status(ctx) }, a.reader)
}

// announce reports a callback that arrived through the listener. The REPL
// is usually blocked at its prompt by then, so the prompt is drawn again.
func (a *App) announce(ctx context.Context, res social.ConnectionResult) {
	switch {
	case res.OK():
		printlnFn(fmt.Sprintf("\n%s connected", res.Network))
	case res.Error != "":
		printlnFn("\n" + signInFailed(res))
	default:
		return
	}
	printlnFn(prompt(a.status(ctx)))
}

func (a *App) status(ctx context.Context) string {
	active, err := a.social.ActiveConnections(ctx)
	if err != nil || len(active) == 0 {
		return ""
	}
	return fmt.Sprintf("(%d linked)", len(active))
}
