package config

import "errors"

var (
	// ErrProfileNotFound indicates the requested profile name is absent.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidProfile indicates a required field is missing or still a placeholder.
	ErrInvalidProfile = errors.New("invalid profile")
)
