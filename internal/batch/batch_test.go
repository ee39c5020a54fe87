package batch_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/tourguide/internal/batch"
)

func TestRun_InvokesEveryItemOnce(t *testing.T) {
	tests := []struct {
		name                  string
		n, batchSize, workers int
	}{
		{"single batch", 10, 100, 4},
		{"even batches", 100, 10, 8},
		{"ragged last batch", 105, 10, 8},
		{"workers above batch size", 20, 5, 50},
		{"serial", 7, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mu sync.Mutex
			seen := make(map[int]int)

			err := batch.Run(context.Background(), tt.n, tt.batchSize, tt.workers, func(_ context.Context, i int) error {
				mu.Lock()
				seen[i]++
				mu.Unlock()
				return nil
			})
			require.NoError(t, err)

			require.Len(t, seen, tt.n)
			for i := 0; i < tt.n; i++ {
				assert.Equal(t, 1, seen[i], "item %d", i)
			}
		})
	}
}

func TestRun_BatchSequencing(t *testing.T) {
	const n, batchSize = 40, 10

	var completed atomic.Int64

	err := batch.Run(context.Background(), n, batchSize, 4, func(_ context.Context, i int) error {
		// Everything from later batches must still be pending.
		myBatch := i / batchSize
		done := completed.Load()
		assert.LessOrEqual(t, done, int64((myBatch+1)*batchSize-1),
			"item %d saw %d completions before its batch finished", i, done)
		assert.GreaterOrEqual(t, done, int64(myBatch*batchSize),
			"item %d started before its predecessor batch completed", i)
		completed.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(n), completed.Load())
}

func TestRun_WorkerLimitRespected(t *testing.T) {
	const workers = 3

	var inFlight, peak atomic.Int64

	err := batch.Run(context.Background(), 50, 25, workers, func(_ context.Context, _ int) error {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int64(workers))
}

func TestRun_FailuresDoNotAbortSiblings(t *testing.T) {
	boom := errors.New("boom")

	var calls atomic.Int64
	err := batch.Run(context.Background(), 30, 10, 4, func(_ context.Context, i int) error {
		calls.Add(1)
		if i%7 == 0 {
			return fmt.Errorf("item failed: %w", boom)
		}
		return nil
	})

	assert.Equal(t, int64(30), calls.Load(), "failures must not cancel remaining work")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestRun_ZeroItems(t *testing.T) {
	err := batch.Run(context.Background(), 0, 10, 4, func(_ context.Context, _ int) error {
		t.Fatal("work must not be invoked")
		return nil
	})
	assert.NoError(t, err)
}

func TestRun_InvalidArguments(t *testing.T) {
	noop := func(_ context.Context, _ int) error { return nil }

	assert.Error(t, batch.Run(context.Background(), 1, 0, 4, noop))
	assert.Error(t, batch.Run(context.Background(), 1, 10, 0, noop))
}
