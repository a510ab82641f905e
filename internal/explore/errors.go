package explore

import "errors"

var (
	// ErrDuplicateProject indicates a snapshot with a repeated project id.
	ErrDuplicateProject = errors.New("duplicate project id")
	// ErrSessionNotFound indicates the explorer session doesn't exist.
	ErrSessionNotFound = errors.New("explorer session not found")
	// ErrProjectNotFound indicates the id isn't in the current snapshot.
	ErrProjectNotFound = errors.New("project not in current snapshot")
)
