package media

import "errors"

var (
	ErrMissingName      = errors.New("object name is required")
	ErrStoreUnavailable = errors.New("object store is not configured")
)
