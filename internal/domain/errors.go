package domain

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotConfigured = errors.New("not configured")
	ErrUpstream      = errors.New("upstream provider failed")
	ErrStorage       = errors.New("storage failed")
)
