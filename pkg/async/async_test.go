package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kstorelabs/notify/pkg/async"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("returns result", func(t *testing.T) {
		t.Parallel()

		fut := async.Run(context.Background(), func(ctx context.Context) (int, error) {
			return 42, nil
		})

		got, err := fut.Await()
		require.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.True(t, fut.IsComplete())
	})

	t.Run("propagates error", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("boom")
		fut := async.Run(context.Background(), func(ctx context.Context) (string, error) {
			return "", wantErr
		})

		_, err := fut.Await()
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("pre-cancelled context short-circuits", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		fut := async.Run(ctx, func(ctx context.Context) (int, error) {
			called = true
			return 1, nil
		})

		_, err := fut.Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

func TestAwaitWithTimeout(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	fut := async.Run(context.Background(), func(ctx context.Context) (int, error) {
		<-block
		return 1, nil
	})

	_, err := fut.AwaitWithTimeout(10 * time.Millisecond)
	assert.ErrorIs(t, err, async.ErrTimeout)
	close(block)
}

func TestResolved(t *testing.T) {
	t.Parallel()

	fut := async.Resolved("done", nil)
	assert.True(t, fut.IsComplete())

	got, err := fut.Await()
	require.NoError(t, err)
	assert.Equal(t, "done", got)
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	t.Run("preserves order", func(t *testing.T) {
		t.Parallel()

		futures := make([]*async.Future[int], 5)
		for i := range futures {
			futures[i] = async.Run(context.Background(), func(ctx context.Context) (int, error) {
				time.Sleep(time.Duration(5-i) * time.Millisecond)
				return i, nil
			})
		}

		results, err := async.WaitAll(futures...)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, results)
	})

	t.Run("collects results even when one fails", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("second failed")
		first := async.Resolved(1, nil)
		second := async.Resolved(0, wantErr)
		third := async.Resolved(3, nil)

		results, err := async.WaitAll(first, second, third)
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, []int{1, 0, 3}, results)
	})
}
