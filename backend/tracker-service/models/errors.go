package models

import "errors"

var (
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidValue indicates an enumerated value or input shape was rejected.
	ErrInvalidValue = errors.New("invalid value")
	// ErrDuplicate indicates the item is already present.
	ErrDuplicate = errors.New("duplicate")
)
