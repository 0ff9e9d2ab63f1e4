package social

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vitrinex/vitrinex/internal/logging"
)

// CallbackPath is where the loopback listener receives provider redirects.
const CallbackPath = "/oauth/callback"

// Browsers never send the fragment, so the first request gets this page,
// which re-requests the same URL with the fragment moved into the query.
var relayPage = template.Must(template.New("relay").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>VitrineX</title></head>
<body><p>Completing sign-in&hellip;</p>
<script>
var q = window.location.search;
var h = window.location.hash.replace(/^#/, '');
window.location.replace(window.location.pathname + (q ? q + '&' : '?') +
  'relayed=1&fragment=' + encodeURIComponent(h));
</script></body></html>`))

var resultPage = template.Must(template.New("result").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>VitrineX</title></head>
<body>{{if .OK}}<p>{{.Network}} connected. You can close this window.</p>
{{else if .Error}}<p>{{if .Network}}{{.Network}} {{end}}sign-in failed: {{.Error}}</p>
{{else}}<p>No sign-in response found.</p>{{end}}</body></html>`))

type resultView struct {
	OK      bool
	Network Network
	Error   string
}

// CallbackServer is a loopback HTTP listener for provider redirects.
type CallbackServer struct {
	addr     string
	manager  *Manager
	log      logging.Logger
	onResult func(ConnectionResult)
	router   chi.Router
}

// NewCallbackServer builds the listener. Relayed callbacks are only
// accepted for the network a Connect call is waiting on. onResult, if set,
// is called after every accepted callback.
func NewCallbackServer(addr string, m *Manager, log logging.Logger, onResult func(ConnectionResult)) *CallbackServer {
	s := &CallbackServer{
		addr:     addr,
		manager:  m,
		log:      log.With("module", "callback_server"),
		onResult: onResult,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Get(CallbackPath, s.handleCallback)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	s.router = r

	return s
}

func (s *CallbackServer) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled.
func (s *CallbackServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *CallbackServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "callback listener started", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info(ctx, "stopping callback listener")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	query := r.URL.Query()
	if query.Get("relayed") != "1" {
		_ = relayPage.Execute(w, nil)
		return
	}

	fragment := query.Get("fragment")
	query.Del("relayed")
	query.Del("fragment")

	callback := url.URL{
		Scheme:   "http",
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: query.Encode(),
	}
	callbackURL := callback.String()
	if fragment != "" {
		// location.hash is already percent-encoded
		callbackURL += "#" + fragment
	}

	ctx := r.Context()
	res, err := s.manager.HandleSolicitedCallback(ctx, callbackURL)
	if errors.Is(err, ErrUnsolicitedCallback) {
		http.Error(w, "no sign-in in progress", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.log.Error(ctx, "handle callback", "error", err)
		http.Error(w, "failed to record sign-in", http.StatusInternalServerError)
		return
	}

	if res.OK() && res.Network == Pinterest && res.Code != "" {
		if !s.manager.CompletePinterestHandshake(ctx) {
			res.Error = "token exchange failed"
		}
	}

	if s.onResult != nil {
		s.onResult(res)
	}

	status := http.StatusOK
	if !res.OK() {
		status = http.StatusBadRequest
	}
	w.WriteHeader(status)
	_ = resultPage.Execute(w, resultView{OK: res.OK(), Network: res.Network, Error: res.Error})
}
