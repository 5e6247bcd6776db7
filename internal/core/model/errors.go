package model

import "errors"

// Sentinel error kinds. Callers match them with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoData       = errors.New("no data")
)
