package errors

import "errors"

var (
	ErrNotFound      = errors.New("supplier not found")
	ErrInvalidID     = errors.New("invalid supplier ID format")
	ErrDuplicateName = errors.New("supplier name already exists")
)
