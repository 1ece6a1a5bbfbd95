package concurrent

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/ifacedeps/pkg/sequence"
)

func TestConcurrent_RunsAll(t *testing.T) {
	var sum atomic.Int64
	err := Concurrent(sequence.From([]int{1, 2, 3, 4}), 2, func(v int) error {
		sum.Add(int64(v))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), sum.Load())
}

func TestConcurrent_JoinsEveryError(t *testing.T) {
	errOdd := errors.New("odd")
	err := Concurrent(sequence.From([]int{1, 2, 3}), 0, func(v int) error {
		if v%2 == 1 {
			return errOdd
		}
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errOdd)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 2)
}
