// Package kv provides the flat string-keyed byte store that backs the
// encrypted local store and the social session state. Drivers: SQLite,
// Postgres, Redis and an in-process map.
package kv

import (
	"context"
)

// Repository is a key/value store. Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
	// SetMany writes all pairs atomically where the driver allows it.
	SetMany(ctx context.Context, values map[string][]byte) error
}
