package securestore

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/vitrinex/vitrinex/internal/client/repositories/kv"
	"github.com/vitrinex/vitrinex/internal/cryptox"
	"github.com/vitrinex/vitrinex/internal/logging"
)

// Store is safe for concurrent use. Only device key acquisition is
// serialized; concurrent writes to one item are last-write-wins.
type Store struct {
	repo kv.Repository
	log  logging.Logger

	keyMu    sync.Mutex
	key      []byte
	generate func() ([]byte, error)
}

func New(repo kv.Repository, log logging.Logger) *Store {
	return &Store{
		repo:     repo,
		log:      log.With("module", "securestore"),
		generate: cryptox.GenerateKey,
	}
}

// SetItem seals the JSON form of value and stores the envelope under key.
func (s *Store) SetItem(ctx context.Context, key string, value any) error {
	deviceKey, err := s.EncryptionKey(ctx)
	if err != nil {
		return err
	}

	env, err := cryptox.SealEnvelope(value, deviceKey)
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", key, err)
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope %s: %w", key, err)
	}

	return s.repo.Set(ctx, key, raw)
}

// GetItem decodes the value stored under key into out.
//
// found is false when the key is absent or its value cannot be decrypted or
// decoded; the latter case is logged. Values that are not envelopes are
// decoded as plain JSON. Only storage errors are returned.
func (s *Store) GetItem(ctx context.Context, key string, out any) (found bool, err error) {
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}

	env, ok := cryptox.ParseEnvelope(raw)
	if !ok {
		if err := json.Unmarshal(raw, out); err != nil {
			s.log.Warn(ctx, "stored value is not valid JSON", "key", key, "error", err)
			return false, nil
		}
		return true, nil
	}

	deviceKey, err := s.EncryptionKey(ctx)
	if err != nil {
		s.log.Warn(ctx, "device key unavailable for read", "key", key, "error", err)
		return false, nil
	}

	var plaintext json.RawMessage
	if err := cryptox.OpenEnvelope(env, deviceKey, &plaintext); err != nil {
		s.log.Warn(ctx, "decrypt failed", "key", key, "error", err)
		return false, nil
	}
	if err := json.Unmarshal(plaintext, out); err != nil {
		s.log.Warn(ctx, "decrypted value does not match target", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// Get is the typed form of GetItem. It returns nil when nothing usable is
// stored under key.
func Get[T any](ctx context.Context, s *Store, key string) (*T, error) {
	var v T
	found, err := s.GetItem(ctx, key, &v)
	if err != nil || !found {
		return nil, err
	}
	return &v, nil
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

// Keys lists stored keys in lexical order, excluding the device key.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		if k == DeviceKeyName {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// IsEncrypted reports whether the value under key is an envelope.
func (s *Store) IsEncrypted(ctx context.Context, key string) (bool, error) {
	raw, err := s.repo.Get(ctx, key)
	if err != nil || raw == nil {
		return false, err
	}
	_, ok := cryptox.ParseEnvelope(raw)
	return ok, nil
}
