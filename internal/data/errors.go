package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrHistoryNotConfigured = errors.New("run history repository not configured")
	ErrRunIDRequired        = errors.New("run_id is required")
	ErrKeyRequired          = errors.New("key cannot be empty")
)
