// Package backup snapshots the whole key/value store (device key included)
// into a passphrase-sealed archive kept in S3-compatible object storage.
package backup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vitrinex/vitrinex/internal/client/repositories/kv"
	"github.com/vitrinex/vitrinex/internal/common"
	"github.com/vitrinex/vitrinex/internal/logging"
	"github.com/vitrinex/vitrinex/internal/netx"
)

// ErrNotConfigured is returned when no object storage is configured.
var ErrNotConfigured = errors.New("backup storage not configured")

type Service struct {
	repo       kv.Repository
	presigner  Presigner
	httpClient *http.Client
	log        logging.Logger
	now        func() time.Time
}

// NewService builds a Service. presigner may be nil, in which case every
// call fails with ErrNotConfigured.
func NewService(repo kv.Repository, presigner Presigner, httpClient *http.Client, log logging.Logger) *Service {
	return &Service{
		repo:       repo,
		presigner:  presigner,
		httpClient: httpClient,
		log:        log.With("module", "backup"),
		now:        time.Now,
	}
}

// ObjectKey returns a fresh object key under backups/<yyyy>/<m>/<d>/.
func ObjectKey(d time.Time) string {
	return fmt.Sprintf("backups/%d/%d/%d/%v.json", d.Year(), d.Month(), d.Day(), uuid.New())
}

func checkPassphrase(p []byte) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty passphrase", common.ErrInvalidArgument)
	}
	return nil
}

// Backup uploads a sealed snapshot of the store and returns its object key.
func (s *Service) Backup(ctx context.Context, passphrase []byte) (string, error) {
	if s.presigner == nil {
		return "", ErrNotConfigured
	}
	if err := checkPassphrase(passphrase); err != nil {
		return "", err
	}

	entries, err := s.repo.List(ctx)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	sealed, err := Seal(&Archive{Version: archiveVersion, CreatedAt: now, Entries: entries}, passphrase)
	if err != nil {
		return "", err
	}

	key := ObjectKey(now)
	putURL, err := s.presigner.PresignPut(ctx, key)
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}
	if err := netx.UploadToPresignedURL(ctx, s.httpClient, putURL, sealed); err != nil {
		return "", err
	}

	s.log.Info(ctx, "backup uploaded", "object", key, "entries", len(entries))
	return key, nil
}

// Restore downloads the archive at key and writes every entry back,
// overwriting existing values. It returns the number of entries written.
func (s *Service) Restore(ctx context.Context, key string, passphrase []byte) (int, error) {
	if s.presigner == nil {
		return 0, ErrNotConfigured
	}
	if err := checkPassphrase(passphrase); err != nil {
		return 0, err
	}

	getURL, err := s.presigner.PresignGet(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("presign get: %w", err)
	}
	raw, err := netx.DownloadFromPresignedURL(ctx, s.httpClient, getURL)
	if err != nil {
		return 0, err
	}

	archive, err := Open(raw, passphrase)
	if err != nil {
		return 0, err
	}
	if len(archive.Entries) == 0 {
		return 0, nil
	}

	if err := s.repo.SetMany(ctx, archive.Entries); err != nil {
		return 0, err
	}

	s.log.Info(ctx, "backup restored", "object", key, "entries", len(archive.Entries),
		"created_at", archive.CreatedAt)
	return len(archive.Entries), nil
}
