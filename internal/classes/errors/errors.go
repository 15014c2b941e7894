package errors

import "errors"

var (
	ErrNotFound = errors.New("class not found")

	ErrInvalidID = errors.New("invalid class ID format")

	ErrNoSeatsAvailable = errors.New("no seats available")
)
