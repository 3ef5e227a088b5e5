package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"
)

// ErrPoolClosed is returned when work is submitted after Close.
var ErrPoolClosed = errors.New("worker pool is closed")

// Pool runs tasks on a fixed number of workers.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewPool starts size workers.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	pool := &Pool{tasks: make(chan func())}
	pool.wg.Add(size)
	for workerID := 1; workerID <= size; workerID++ {
		go pool.worker(workerID)
	}
	return pool
}

func (it *Pool) worker(workerID int) {
	defer it.wg.Done()

	workerLog := logger.WithField("worker_id", workerID)
	workerLog.Debug("[transport] Worker started")
	for task := range it.tasks {
		workerLog.Debug("[transport] Worker picked up a run")
		task()
	}
	workerLog.Debug("[transport] Worker finished")
}

// Do runs fn on a worker and waits for its result. ctx only bounds the wait for a free worker;
// once fn has started it always runs to completion. A panic in fn is returned as an error.
func (it *Pool) Do(ctx context.Context, fn func() (any, error)) (any, error) {
	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)
	task := func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				done <- outcome{err: fmt.Errorf("run panicked: %v", recovered)}
			}
		}()
		value, err := fn()
		done <- outcome{value: value, err: err}
	}

	it.mu.RLock()
	if it.closed {
		it.mu.RUnlock()
		return nil, ErrPoolClosed
	}
	select {
	case it.tasks <- task:
		it.mu.RUnlock()
	case <-ctx.Done():
		it.mu.RUnlock()
		return nil, ctx.Err()
	}

	result := <-done
	return result.value, result.err
}

// Close stops accepting work and waits for running tasks to finish.
func (it *Pool) Close() {
	it.mu.Lock()
	if !it.closed {
		it.closed = true
		close(it.tasks)
	}
	it.mu.Unlock()
	it.wg.Wait()
}
