package cryptox

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Envelope is the persisted form of an encrypted value: hex nonce and hex
// ciphertext.
type Envelope struct {
	IV   string `json:"iv"`
	Data string `json:"data"`
}

// SealEnvelope encrypts the JSON form of value into an Envelope.
func SealEnvelope(value any, key []byte) (*Envelope, error) {
	ciphertext, nonce, err := EncryptValue(value, key)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		IV:   hex.EncodeToString(nonce),
		Data: hex.EncodeToString(ciphertext),
	}, nil
}

// OpenEnvelope decrypts e and unmarshals the plaintext JSON into v.
func OpenEnvelope(e *Envelope, key []byte, v any) error {
	nonce, err := hex.DecodeString(e.IV)
	if err != nil {
		return fmt.Errorf("decode iv: %w", err)
	}
	ciphertext, err := hex.DecodeString(e.Data)
	if err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return DecryptValue(ciphertext, nonce, key, v)
}

// ParseEnvelope reports whether raw is a JSON object carrying non-empty
// string "iv" and "data" members. Anything else (plain JSON values, objects
// of another shape, invalid JSON) is not an envelope.
func ParseEnvelope(raw []byte) (*Envelope, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}

	var e Envelope
	ivRaw, ok := fields["iv"]
	if !ok || json.Unmarshal(ivRaw, &e.IV) != nil || e.IV == "" {
		return nil, false
	}
	dataRaw, ok := fields["data"]
	if !ok || json.Unmarshal(dataRaw, &e.Data) != nil || e.Data == "" {
		return nil, false
	}
	return &e, true
}
