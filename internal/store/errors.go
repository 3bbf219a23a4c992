package store

import "errors"

var (
	ErrNotFound               = errors.New("knowledge entry not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrUsageNotFound          = errors.New("usage event not found")
)
