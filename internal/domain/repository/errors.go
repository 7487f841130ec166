package repository

import "errors"

// Storage-level sentinels; services translate them into AppErrors.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrVersionConflict = errors.New("version conflict")
)
