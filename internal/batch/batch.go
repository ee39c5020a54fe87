// Package batch runs large item collections in fixed-size batches on a
// bounded worker pool, so peak in-flight work stays bounded no matter how
// many items the caller brings.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Run invokes work once per item index in [0, n), in consecutive batches
// of at most batchSize items. Within a batch, at most workerLimit
// invocations run concurrently; a batch fully completes before the next
// one starts. One item's failure never cancels its siblings: failures are
// collected and returned joined after every batch has finished.
func Run(ctx context.Context, n, batchSize, workerLimit int, work func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}
	if batchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", batchSize)
	}
	if workerLimit < 1 {
		return fmt.Errorf("worker limit must be at least 1, got %d", workerLimit)
	}

	var mu sync.Mutex
	var failures []error

	for start := 0; start < n; start += batchSize {
		end := min(start+batchSize, n)

		g := new(errgroup.Group)
		g.SetLimit(workerLimit)

		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := work(ctx, i); err != nil {
					mu.Lock()
					failures = append(failures, fmt.Errorf("item %d: %w", i, err))
					mu.Unlock()
				}
				// Collected rather than returned: Wait would surface
				// only the first failure.
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}
	}

	return errors.Join(failures...)
}
