// Package common defines shared constants and sentinel errors used across
// VitrineX client packages. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Input errors.
	ErrInvalidArgument = errors.New("invalid argument")
)
