package concurrent

import (
	"errors"

	"github.com/zeusync/ifacedeps/pkg/sequence"
	"golang.org/x/sync/errgroup"
)

// Concurrent runs action for each element of the iterator, at most limit at a
// time (limit <= 0 means unbounded). Unlike a plain errgroup it waits for every
// action and returns all errors joined, in iterator order.
func Concurrent[T any](i *sequence.Iterator[T], limit int, action func(T) error) error {
	items := i.Collect()
	errs := make([]error, len(items))

	errGroup := errgroup.Group{}
	if limit > 0 {
		errGroup.SetLimit(limit)
	}

	for idx, value := range items {
		errGroup.Go(func() error {
			errs[idx] = action(value)
			return nil
		})
	}

	_ = errGroup.Wait()
	return errors.Join(errs...)
}
