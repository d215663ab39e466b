package domain

import "errors"

var (
	// ErrNotFound is returned when a rental or tool identifier does not exist.
	ErrNotFound = errors.New("not found")
)
