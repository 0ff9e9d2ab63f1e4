package securestore

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/vitrinex/vitrinex/internal/common"
	"github.com/vitrinex/vitrinex/internal/cryptox"
)

// DeviceKeyName is the storage key holding the device key JWK.
const DeviceKeyName = "vitrinex_secure_cek"

// maxKeyAttempts bounds load/regenerate cycles in EncryptionKey.
const maxKeyAttempts = 2

// ErrKeyUnavailable is returned when no usable device key could be loaded
// or generated.
var ErrKeyUnavailable = errors.New("device key unavailable")

// EncryptionKey returns the device key, loading or creating it on first
// use. A stored key that fails to import is deleted and replaced. Storage
// errors are returned as is.
func (s *Store) EncryptionKey(ctx context.Context) ([]byte, error) {
	s.keyMu.Lock()
	defer s.keyMu.Unlock()

	if s.key != nil {
		return slices.Clone(s.key), nil
	}

	var lastErr error
	for range maxKeyAttempts {
		raw, err := s.repo.Get(ctx, DeviceKeyName)
		if err != nil {
			return nil, err
		}

		if raw == nil {
			key, err := s.createKey(ctx)
			if err == nil {
				s.key = key
				return slices.Clone(key), nil
			}
			if !errors.Is(err, errGenerate) {
				return nil, err
			}
			s.log.Warn(ctx, "device key generation failed", "error", err)
			lastErr = err
			continue
		}

		key, err := cryptox.ImportJWK(raw)
		if err == nil {
			s.key = key
			return slices.Clone(key), nil
		}

		s.log.Warn(ctx, "stored device key is unreadable, regenerating", "error", err)
		lastErr = err
		if err := s.repo.Delete(ctx, DeviceKeyName); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrKeyUnavailable, lastErr)
}

var errGenerate = errors.New("generate device key")

func (s *Store) createKey(ctx context.Context) ([]byte, error) {
	key, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errGenerate, err)
	}
	raw, err := cryptox.MarshalJWK(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errGenerate, err)
	}
	if err := s.repo.Set(ctx, DeviceKeyName, raw); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "device key created")
	return key, nil
}

// ForgetKey drops the cached device key so the next operation reloads it
// from storage.
func (s *Store) ForgetKey() {
	s.keyMu.Lock()
	defer s.keyMu.Unlock()

	if s.key != nil {
		common.WipeByteArray(s.key)
		s.key = nil
	}
}
