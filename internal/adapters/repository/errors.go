package repository

import "errors"

// Sentinel kinds for reference data errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidRecord = errors.New("invalid record")
	ErrDuplicateID   = errors.New("duplicate id")
)
