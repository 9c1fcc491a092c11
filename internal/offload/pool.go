// Package offload runs CPU-heavy tasks on a bounded set of goroutines so
// request goroutines only wait on a channel.
package offload

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrClosed is returned when a task is submitted after Close.
	ErrClosed = errors.New("offload: pool closed")
	// ErrCancelled is returned when the context ends before the task result is available.
	ErrCancelled = errors.New("offload: cancelled")
	// ErrPanicked is returned when the task panicked.
	ErrPanicked = errors.New("offload: task panicked")
)

// Config controls pool sizing.
type Config struct {
	// Workers bounds concurrent tasks. Zero means runtime.GOMAXPROCS(0).
	Workers int
}

// Pool bounds concurrent offloaded tasks.
type Pool struct {
	sem       *semaphore.Weighted
	workers   int64
	mu        sync.RWMutex
	inflight  sync.WaitGroup
	running   atomic.Int64
	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

type result[T any] struct {
	val T
	err error
}

// NewPool creates a pool with cfg.Workers slots.
func NewPool(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{
		sem:     semaphore.NewWeighted(int64(workers)),
		workers: int64(workers),
		done:    make(chan struct{}),
	}
}

// Workers returns the number of slots.
func (p *Pool) Workers() int {
	return int(p.workers)
}

// Running returns the number of tasks currently executing.
func (p *Pool) Running() int64 {
	return p.running.Load()
}

// Run executes task on a pool goroutine and waits for its result or for ctx
// to end. A task whose caller gave up keeps its slot until it returns.
func Run[T any](ctx context.Context, p *Pool, task func() (T, error)) (T, error) {
	var zero T
	if p == nil || p.closed.Load() {
		return zero, ErrClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrCancelled, err)
	}

	p.mu.RLock()
	if p.closed.Load() {
		p.mu.RUnlock()
		p.sem.Release(1)
		return zero, ErrClosed
	}
	p.inflight.Add(1)
	p.mu.RUnlock()

	ch := make(chan result[T], 1)
	p.running.Add(1)
	go func() {
		defer p.inflight.Done()
		defer p.sem.Release(1)
		defer p.running.Add(-1)

		var res result[T]
		defer func() {
			if r := recover(); r != nil {
				res = result[T]{err: fmt.Errorf("%w: %v", ErrPanicked, r)}
			}
			ch <- res
		}()
		res.val, res.err = task()
	}()

	select {
	case res := <-ch:
		return res.val, res.err
	case <-ctx.Done():
		return zero, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
	case <-p.done:
		return zero, ErrClosed
	}
}

// Close rejects new tasks and waits for running ones to finish.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed.Store(true)
		p.mu.Unlock()
		close(p.done)
		p.inflight.Wait()
	})
}
