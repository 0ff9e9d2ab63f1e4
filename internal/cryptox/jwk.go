package cryptox

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
)

// JWK is the JSON Web Key form of a symmetric AES-GCM key (RFC 7517, kty "oct").
type JWK struct {
	Kty    string   `json:"kty"`
	K      string   `json:"k"`
	Alg    string   `json:"alg,omitempty"`
	Ext    bool     `json:"ext"`
	KeyOps []string `json:"key_ops,omitempty"`
}

// ExportJWK encodes key as an extractable A256GCM JWK.
func ExportJWK(key []byte) (JWK, error) {
	if len(key) != KeySize {
		return JWK{}, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}
	return JWK{
		Kty:    "oct",
		K:      base64.RawURLEncoding.EncodeToString(key),
		Alg:    "A256GCM",
		Ext:    true,
		KeyOps: []string{"encrypt", "decrypt"},
	}, nil
}

// MarshalJWK exports key and serializes the JWK.
func MarshalJWK(key []byte) ([]byte, error) {
	jwk, err := ExportJWK(key)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jwk)
}

// ImportJWK validates a serialized JWK and returns the raw key bytes.
func ImportJWK(raw []byte) ([]byte, error) {
	var jwk JWK
	if err := json.Unmarshal(raw, &jwk); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if jwk.Kty != "oct" {
		return nil, fmt.Errorf("%w: unsupported kty %q", ErrInvalidKey, jwk.Kty)
	}
	if jwk.Alg != "" && jwk.Alg != "A256GCM" {
		return nil, fmt.Errorf("%w: unsupported alg %q", ErrInvalidKey, jwk.Alg)
	}
	if len(jwk.KeyOps) > 0 && (!slices.Contains(jwk.KeyOps, "encrypt") || !slices.Contains(jwk.KeyOps, "decrypt")) {
		return nil, fmt.Errorf("%w: key_ops %v", ErrInvalidKey, jwk.KeyOps)
	}

	key, err := base64.RawURLEncoding.DecodeString(jwk.K)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}
	return key, nil
}
