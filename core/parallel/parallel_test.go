package parallel

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

func TestParallelizeCoversEveryItemOnce(t *testing.T) {
	for _, items := range []int{0, 1, 7, 100, 1001} {
		t.Run(fmt.Sprintf("items=%d", items), func(t *testing.T) {
			hits := make([]int32, items)
			err := ParallelizeErr(items, func(start, end int) error {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
				return nil
			})
			require.NoError(t, err)
			for i, h := range hits {
				assert.Equal(t, int32(1), h, "item %d", i)
			}
		})
	}
}

func TestParallelizeWithThresholdSequential(t *testing.T) {
	var calls int32
	err := ParallelizeWithThresholdErr(10, 100, func(start, end int) error {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls)
}

func TestParallelizeErr(t *testing.T) {
	t.Run("returns range error", func(t *testing.T) {
		err := ParallelizeErr(50, func(start, end int) error {
			if start <= 25 && 25 < end {
				return errors.New("bad row")
			}
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad row")
	})

	t.Run("recovers panic", func(t *testing.T) {
		err := ParallelizeErr(50, func(start, end int) error {
			if start == 0 {
				panic("boom")
			}
			return nil
		})
		var panicErr *errors.PanicError
		require.True(t, errors.As(err, &panicErr))
		assert.Equal(t, "boom", panicErr.PanicValue)
	})

	t.Run("sequential path recovers panic", func(t *testing.T) {
		err := ParallelizeWithThresholdErr(3, 10, func(start, end int) error {
			panic("small batch")
		})
		var panicErr *errors.PanicError
		assert.True(t, errors.As(err, &panicErr))
	})
}
