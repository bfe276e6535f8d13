package scope

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_SameKeyIsExclusive(t *testing.T) {
	k := NewKeyed()
	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := k.Do(context.Background(), "incident:1", func() error {
				n := inside.Add(1)
				for {
					m := maxInside.Load()
					if n <= m || maxInside.CompareAndSwap(m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
	assert.Equal(t, 0, k.Len())
}

func TestAcquire_DifferentKeysRunConcurrently(t *testing.T) {
	k := NewKeyed()

	releaseA, err := k.Acquire(context.Background(), "incident:a")
	require.NoError(t, err)
	defer releaseA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	releaseB, err := k.Acquire(ctx, "incident:b")
	require.NoError(t, err)
	releaseB()
}

func TestAcquire_TimesOutWhileHeld(t *testing.T) {
	k := NewKeyed()

	release, err := k.Acquire(context.Background(), "officer:1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = k.Acquire(ctx, "officer:1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	assert.Equal(t, 0, k.Len())
}

func TestAcquire_FIFOHandoff(t *testing.T) {
	k := NewKeyed()
	release, err := k.Acquire(context.Background(), "channel:general")
	require.NoError(t, err)

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = k.Do(context.Background(), "channel:general", func() error {
				mu.Lock()
				order = append(order, n)
				mu.Unlock()
				return nil
			})
		}(i)
		// Дожидаемся, пока горутина встанет в очередь
		want := i + 2
		require.Eventually(t, func() bool {
			k.mu.Lock()
			defer k.mu.Unlock()
			return k.locks["channel:general"].refs == want
		}, time.Second, time.Millisecond)
		time.Sleep(5 * time.Millisecond)
	}

	release()
	wg.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestRelease_IdempotentAndPanicSafe(t *testing.T) {
	k := NewKeyed()

	release, err := k.Acquire(context.Background(), "incident:x")
	require.NoError(t, err)
	release()
	release()

	assert.Panics(t, func() {
		_ = k.Do(context.Background(), "incident:x", func() error { panic("boom") })
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	again, err := k.Acquire(ctx, "incident:x")
	require.NoError(t, err)
	again()
}

func TestAcquire_CancelledContext(t *testing.T) {
	k := NewKeyed()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := k.Acquire(ctx, "incident:y")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, k.Len())
}
