package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrInvalidGeometry indicates a missing or malformed project geometry.
	ErrInvalidGeometry = errors.New("invalid project geometry")
)
