package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// WorkFunc performs one download on its own goroutine.
type WorkFunc func(ctx context.Context) (Result, error)

// Queue manages a batch of concurrent async downloads. Each download
// owns its connection and file; the queue only bounds how many run.
type Queue struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	sem      *semaphore.Weighted
	shutdown atomic.Bool
	errs     []error
}

// NewQueue creates a Queue with the given concurrency limit.
// If maxConcurrent <= 0, concurrency is unlimited.
func NewQueue(maxConcurrent int) *Queue {
	q := &Queue{}
	if maxConcurrent > 0 {
		q.sem = semaphore.NewWeighted(int64(maxConcurrent))
	}
	return q
}

// Async starts fn on the queue selected by optFns: the one passed via
// [WithQueue], a new one sized by [WithBatch], or an unbounded one.
func Async(ctx context.Context, fn WorkFunc, optFns ...Option) (*Job, error) {
	opts, err := apply(optFns)
	if err != nil {
		return nil, fmt.Errorf("applying option: %w", err)
	}

	q := opts.queue
	if q == nil {
		var limit int
		if opts.batch != nil {
			limit = *opts.batch
		}
		q = NewQueue(limit)
	}

	return q.Start(ctx, fn), nil
}

// Wait blocks until all downloads in the queue complete.
// Returns all errors joined via errors.Join.
func (q *Queue) Wait() error {
	q.wg.Wait()
	q.mu.Lock()
	defer q.mu.Unlock()
	return errors.Join(q.errs...)
}

// Shutdown prevents new work from executing in this queue.
func (q *Queue) Shutdown() {
	q.shutdown.Store(true)
}

// Start launches fn in a new goroutine managed by the queue
// and returns a Job for tracking the individual download.
func (q *Queue) Start(ctx context.Context, fn WorkFunc) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{
		done:   make(chan struct{}),
		cancel: cancel,
		queue:  q,
	}

	q.wg.Add(1)
	go func() {
		defer func() {
			cancel()
			close(j.done)
			q.wg.Done()
		}()

		if q.sem != nil {
			if err := q.sem.Acquire(ctx, 1); err != nil {
				j.err = err
				q.recordErr(j.err)
				return
			}
			defer q.sem.Release(1)
		}

		if q.shutdown.Load() {
			j.err = ErrGroupShutdown
			q.recordErr(j.err)
			return
		}

		j.res, j.err = fn(ctx)
		if j.err != nil {
			q.recordErr(j.err)
		}
	}()

	return j
}

// recordErr appends err to the queue's error slice under the mutex.
func (q *Queue) recordErr(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.errs = append(q.errs, err)
}
