package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicatePairing = errors.New("a match for this pairing already exists")
	ErrCannotTransition = errors.New("match cannot make this transition")
	ErrAccessDenied     = errors.New("access denied")
	ErrNotFound         = errors.New("not found")
	ErrInvalidFilter    = errors.New("invalid filter")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternal         = errors.New("internal error")
)

// internalError keeps the cause readable in logs while callers only see ErrInternal.
func internalError(err error) error {
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
