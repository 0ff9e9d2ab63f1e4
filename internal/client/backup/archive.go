package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vitrinex/vitrinex/internal/common"
	"github.com/vitrinex/vitrinex/internal/cryptox"
)

const archiveVersion = 1

// ErrWrongPassphrase is returned when an archive does not open with the
// given passphrase (or was tampered with).
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted archive")

// Archive is a snapshot of every kv entry.
type Archive struct {
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	Entries   map[string][]byte `json:"entries"`
}

// sealedArchive is the uploaded object.
type sealedArchive struct {
	Version int    `json:"version"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Data    []byte `json:"data"`
}

// Seal encrypts a with a key derived from passphrase.
func Seal(a *Archive, passphrase []byte) ([]byte, error) {
	plaintext, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal archive: %w", err)
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)

	ciphertext, nonce, err := cryptox.Seal(plaintext, key)
	if err != nil {
		return nil, err
	}

	return json.Marshal(sealedArchive{
		Version: archiveVersion,
		Salt:    salt,
		Nonce:   nonce,
		Data:    ciphertext,
	})
}

// Open reverses Seal.
func Open(raw, passphrase []byte) (*Archive, error) {
	var sealed sealedArchive
	if err := json.Unmarshal(raw, &sealed); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	if sealed.Version != archiveVersion {
		return nil, fmt.Errorf("unsupported archive version %d", sealed.Version)
	}

	key := cryptox.DeriveKey(passphrase, sealed.Salt)
	defer common.WipeByteArray(key)

	plaintext, err := cryptox.Open(sealed.Data, sealed.Nonce, key)
	if err != nil {
		return nil, ErrWrongPassphrase
	}

	var a Archive
	if err := json.Unmarshal(plaintext, &a); err != nil {
		return nil, fmt.Errorf("decode archive payload: %w", err)
	}
	return &a, nil
}
