// Package securestore layers transparent AES-256-GCM encryption over a
// kv.Repository.
//
// Every value written through SetItem is JSON-encoded, sealed with the
// device key and stored as a {"iv","data"} hex envelope. Reads fall back to
// plain JSON for values that were written before encryption existed, and
// treat anything that cannot be decrypted as absent.
//
// The device key is a single AES-256 key persisted as a JWK under
// DeviceKeyName. It is created on first use and cached for the life of the
// Store. Losing it makes every stored record unreadable; the backup package
// is the recovery path.
package securestore
