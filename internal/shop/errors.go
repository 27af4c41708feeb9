package shop

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/repcache"
)

var (
	// ErrNotFound is repcache.ErrNotFound so loaders can return store errors as is.
	ErrNotFound   = repcache.ErrNotFound
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
