package repcache

import (
	"context"
	"errors"
)

// Invalidator evicts cached representations after a committed write.
type Invalidator struct {
	store *Store
	log   Logger
	hooks Hooks
}

func newInvalidator(s *Store, log Logger, hooks Hooks) *Invalidator {
	return &Invalidator{store: s, log: log, hooks: hooks}
}

// OnWrite invalidates every key. Call it after the write commits and before
// the write is acknowledged. Every key is attempted even when one fails; the
// failures come back as *InvalidateError values (joined when more than one).
// The write itself stays committed.
func (i *Invalidator) OnWrite(ctx context.Context, keys ...ResourceKey) error {
	seen := make(map[ResourceKey]struct{}, len(keys))
	var errs []error
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, err := i.store.Invalidate(ctx, k); err != nil {
			i.log.Error("invalidate failed", Fields{"resource": k.String(), "err": err})
			i.hooks.InvalidateFailure(k.String(), err)
			errs = append(errs, err)
		}
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}
