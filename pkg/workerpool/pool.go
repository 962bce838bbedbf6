package workerpool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/workscout/workscout/pkg/logging"
)

var (
	// ErrPoolClosed is returned by Submit after Release has been called.
	ErrPoolClosed = errors.New("workerpool: pool is closed")
	// ErrPoolOverloaded is returned when the pool cannot accept more work.
	ErrPoolOverloaded = errors.New("workerpool: pool is overloaded")
)

// Stats is a point-in-time snapshot of pool occupancy.
type Stats struct {
	Capacity  int
	Running   int
	Free      int
	Submitted int64
}

// Pool is a fixed-size, long-lived worker pool shared across requests.
// It exists so that concurrent searches never spawn an unbounded number
// of outbound HTTP calls.
type Pool struct {
	inner *ants.Pool
	log   *logging.Logger

	mu        sync.Mutex
	submitted int64
}

// New creates a pool with the given number of workers.
func New(size int, log *logging.Logger) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("workerpool: size must be positive, got %d", size)
	}

	inner, err := ants.NewPool(size, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmt.Errorf("workerpool: create: %w", err)
	}

	return &Pool{inner: inner, log: log}, nil
}

// Submit schedules task on a worker. It blocks while all workers are busy
// and fails only when the pool has been released.
func (p *Pool) Submit(task func()) error {
	if err := p.inner.Submit(task); err != nil {
		switch {
		case errors.Is(err, ants.ErrPoolClosed):
			return ErrPoolClosed
		case errors.Is(err, ants.ErrPoolOverload):
			return ErrPoolOverloaded
		default:
			return fmt.Errorf("workerpool: submit: %w", err)
		}
	}

	p.mu.Lock()
	p.submitted++
	p.mu.Unlock()
	return nil
}

// Stats reports current pool occupancy.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	submitted := p.submitted
	p.mu.Unlock()

	return Stats{
		Capacity:  p.inner.Cap(),
		Running:   p.inner.Running(),
		Free:      p.inner.Free(),
		Submitted: submitted,
	}
}

// Release stops the pool. Pending tasks finish; new submissions fail
// with ErrPoolClosed.
func (p *Pool) Release() {
	p.inner.Release()
	if p.log != nil {
		p.log.Info("worker pool released", "submitted_total", p.Stats().Submitted)
	}
}
