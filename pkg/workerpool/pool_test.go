package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/workscout/workscout/pkg/logging"
)

func TestNewRejectsNonPositiveSize(t *testing.T) {
	_, err := New(0, logging.NewNop())
	require.Error(t, err)

	_, err = New(-3, logging.NewNop())
	require.Error(t, err)
}

func TestSubmitRunsTasks(t *testing.T) {
	pool, err := New(4, logging.NewNop())
	require.NoError(t, err)
	defer pool.Release()

	var ran atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(func() {
			defer wg.Done()
			ran.Add(1)
		}))
	}
	wg.Wait()

	require.EqualValues(t, 20, ran.Load())
	require.EqualValues(t, 20, pool.Stats().Submitted)
}

func TestSubmitBlocksAtCapacity(t *testing.T) {
	pool, err := New(1, logging.NewNop())
	require.NoError(t, err)
	defer pool.Release()

	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)

	require.NoError(t, pool.Submit(func() {
		defer wg.Done()
		<-release
	}))

	done := make(chan struct{})
	go func() {
		// Blocks until the first task frees the only worker.
		_ = pool.Submit(func() { defer wg.Done() })
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second submit should block while the worker is busy")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	wg.Wait()
	<-done
}

func TestSubmitAfterRelease(t *testing.T) {
	pool, err := New(2, logging.NewNop())
	require.NoError(t, err)

	pool.Release()

	err = pool.Submit(func() {})
	require.ErrorIs(t, err, ErrPoolClosed)
}
