package decompose

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedMapOrderPreservation(t *testing.T) {
	const n = 40
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}

	for _, limit := range []int{1, 2, 3, 8, n} {
		t.Run(fmt.Sprintf("limit_%d", limit), func(t *testing.T) {
			results, err := BoundedMap(context.Background(), items, limit, func(ctx context.Context, item, index int) (string, error) {
				time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
				return fmt.Sprintf("item-%d", item), nil
			})
			require.NoError(t, err)
			require.Len(t, results, n)
			for i, r := range results {
				assert.Equal(t, fmt.Sprintf("item-%d", i), r)
			}
		})
	}
}

func TestBoundedMapConcurrencyBound(t *testing.T) {
	const (
		n     = 30
		limit = 2
	)
	items := make([]int, n)

	var inFlight, peak atomic.Int64
	_, err := BoundedMap(context.Background(), items, limit, func(ctx context.Context, item, index int) (int, error) {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		return item, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int64(limit))
	assert.Zero(t, inFlight.Load())
}

func TestBoundedMapWorkExhaustion(t *testing.T) {
	const n = 25
	items := make([]int, n)

	seen := make([]atomic.Int32, n)
	_, err := BoundedMap(context.Background(), items, 4, func(ctx context.Context, item, index int) (int, error) {
		seen[index].Add(1)
		return index, nil
	})
	require.NoError(t, err)
	for i := range seen {
		assert.Equal(t, int32(1), seen[i].Load(), "index %d", i)
	}
}

func TestBoundedMapClampsLimit(t *testing.T) {
	var workers atomic.Int64
	results, err := BoundedMap(context.Background(), []int{7}, 2, func(ctx context.Context, item, index int) (int, error) {
		workers.Add(1)
		return item * 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{14}, results)
	assert.Equal(t, int64(1), workers.Load())
}

func TestBoundedMapFailFast(t *testing.T) {
	const n = 50
	items := make([]int, n)

	boom := errors.New("boom")
	var calls atomic.Int64
	_, err := BoundedMap(context.Background(), items, 2, func(ctx context.Context, item, index int) (int, error) {
		calls.Add(1)
		if index == 3 {
			return 0, boom
		}
		time.Sleep(time.Millisecond)
		return item, nil
	})
	require.ErrorIs(t, err, boom)
	// Remaining indices are not claimed once the group context is cancelled.
	assert.Less(t, calls.Load(), int64(n))
}

func TestBoundedMapEmptyInput(t *testing.T) {
	results, err := BoundedMap(context.Background(), []string{}, 2, func(ctx context.Context, item string, index int) (string, error) {
		t.Fatal("transform must not run for empty input")
		return "", nil
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBoundedMapRejectsNonPositiveLimit(t *testing.T) {
	_, err := BoundedMap(context.Background(), []int{1}, 0, func(ctx context.Context, item, index int) (int, error) {
		return item, nil
	})
	require.Error(t, err)
}

func TestBoundedMapHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	items := make([]int, 100)

	var calls atomic.Int64
	_, err := BoundedMap(ctx, items, 2, func(ctx context.Context, item, index int) (int, error) {
		if calls.Add(1) == 2 {
			cancel()
		}
		time.Sleep(time.Millisecond)
		return item, nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, calls.Load(), int64(100))
}
