package community

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("community post not found")
	ErrDuplicatePath = errors.New("media path already in use")
)
