package errors

import "errors"

var (
	ErrNotFound      = errors.New("booking not found")
	ErrInvalidID     = errors.New("invalid booking id")
	ErrStaleRevision = errors.New("booking revision is stale")
	ErrDuplicatePNR  = errors.New("pnr already exists")
)
