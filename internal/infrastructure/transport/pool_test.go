//go:build unit

package transport_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/robotremote/internal/infrastructure/transport"
)

func TestPool(t *testing.T) {
	t.Parallel()

	t.Run("should never run more tasks at once than it has workers", func(t *testing.T) {
		t.Parallel()
		// given
		pool := transport.NewPool(2)
		defer pool.Close()
		var active, peak atomic.Int32

		// when
		var wg sync.WaitGroup
		for range 6 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = pool.Do(context.Background(), func() (any, error) {
					current := active.Add(1)
					for {
						seen := peak.Load()
						if current <= seen || peak.CompareAndSwap(seen, current) {
							break
						}
					}
					time.Sleep(20 * time.Millisecond)
					active.Add(-1)
					return nil, nil
				})
			}()
		}
		wg.Wait()

		// then
		assert.LessOrEqual(t, peak.Load(), int32(2))
		assert.Positive(t, peak.Load())
	})

	t.Run("should return the task result and error", func(t *testing.T) {
		t.Parallel()
		// given
		pool := transport.NewPool(1)
		defer pool.Close()
		failure := errors.New("run failed")

		// when
		value, err := pool.Do(context.Background(), func() (any, error) { return 42, nil })
		_, failed := pool.Do(context.Background(), func() (any, error) { return nil, failure })

		// then
		require.NoError(t, err)
		assert.Equal(t, 42, value)
		require.ErrorIs(t, failed, failure)
	})

	t.Run("should turn a panicking task into an error and keep its worker", func(t *testing.T) {
		t.Parallel()
		// given
		pool := transport.NewPool(1)
		defer pool.Close()

		// when
		_, err := pool.Do(context.Background(), func() (any, error) { panic("boom") })
		value, nextErr := pool.Do(context.Background(), func() (any, error) { return "ok", nil })

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
		require.NoError(t, nextErr)
		assert.Equal(t, "ok", value)
	})

	t.Run("should give up waiting for a busy worker when the context ends", func(t *testing.T) {
		t.Parallel()
		// given
		pool := transport.NewPool(1)
		defer pool.Close()
		release := make(chan struct{})
		started := make(chan struct{})
		go func() {
			_, _ = pool.Do(context.Background(), func() (any, error) {
				close(started)
				<-release
				return nil, nil
			})
		}()
		<-started
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		// when
		_, err := pool.Do(ctx, func() (any, error) { return nil, nil })
		close(release)

		// then
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("should refuse work after close", func(t *testing.T) {
		t.Parallel()
		// given
		pool := transport.NewPool(1)
		pool.Close()

		// when
		_, err := pool.Do(context.Background(), func() (any, error) { return nil, nil })

		// then
		require.ErrorIs(t, err, transport.ErrPoolClosed)
	})
}
