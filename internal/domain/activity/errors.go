package activity

import "errors"

// ErrInvalidInput indicates an entry that can't be logged.
var ErrInvalidInput = errors.New("invalid activity entry")
