package repcache

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by loaders when the resource does not exist.
	// The resolver maps it to NotFound and caches nothing.
	ErrNotFound = errors.New("repcache: not found")

	ErrEncoding   = errors.New("repcache: encoding failed")
	ErrInvalidate = errors.New("repcache: invalidation failed")
)

// EncodingError reports a record that could not be represented in Kind.
// It is a defect, never a client error.
type EncodingError struct {
	Kind RepresentationKind
	Err  error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("repcache: encode %s: %v", e.Kind, e.Err)
}

func (e *EncodingError) Unwrap() []error { return []error{ErrEncoding, e.Err} }

type InvalidateError struct {
	Key     string
	BumpErr error
	DelErr  error
}

func (e *InvalidateError) Error() string {
	switch {
	case e.BumpErr != nil && e.DelErr != nil:
		return fmt.Sprintf("repcache: invalidate %q: gen bump and delete failed: bump=%v; delete=%v",
			e.Key, e.BumpErr, e.DelErr)
	case e.BumpErr != nil:
		return fmt.Sprintf("repcache: invalidate %q: gen bump failed: %v", e.Key, e.BumpErr)
	case e.DelErr != nil:
		return fmt.Sprintf("repcache: invalidate %q: delete failed: %v", e.Key, e.DelErr)
	default:
		return fmt.Sprintf("repcache: invalidate %q: unknown error", e.Key)
	}
}

func (e *InvalidateError) Unwrap() []error {
	errs := make([]error, 0, 3)
	errs = append(errs, ErrInvalidate)
	if e.BumpErr != nil {
		errs = append(errs, e.BumpErr)
	}
	if e.DelErr != nil {
		errs = append(errs, e.DelErr)
	}
	return errs
}
