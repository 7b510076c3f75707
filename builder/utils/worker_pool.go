package utils

import (
	"context"
	"runtime"
	"sync"
)

const (
	MaxWorkers       = 64
	WorkerBufferSize = 4
)

// WorkerPool runs handler over submitted tasks with a fixed number of goroutines.
type WorkerPool[T any] struct {
	workers   int
	ctx       context.Context
	wg        sync.WaitGroup
	taskQueue chan T
	handler   func(T)
}

func NewWorkerPool[T any](ctx context.Context, workers int, handler func(T)) *WorkerPool[T] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	return &WorkerPool[T]{
		workers:   workers,
		ctx:       ctx,
		taskQueue: make(chan T, workers*WorkerBufferSize),
		handler:   handler,
	}
}

// Workers returns the effective pool size.
func (p *WorkerPool[T]) Workers() int {
	return p.workers
}

func (p *WorkerPool[T]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *WorkerPool[T]) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.taskQueue:
			if !ok {
				return
			}
			p.handler(task)
		}
	}
}

// Submit queues a task. It reports false when the context was cancelled first.
func (p *WorkerPool[T]) Submit(task T) bool {
	select {
	case <-p.ctx.Done():
		return false
	case p.taskQueue <- task:
		return true
	}
}

// Stop closes the queue and waits for in-flight tasks.
func (p *WorkerPool[T]) Stop() {
	close(p.taskQueue)
	p.wg.Wait()
}

// ForEach runs fn over items on a bounded pool and waits for all of them.
func ForEach[T any](ctx context.Context, workers int, items []T, fn func(T)) {
	pool := NewWorkerPool(ctx, workers, fn)
	pool.Start()
	for _, item := range items {
		if !pool.Submit(item) {
			break
		}
	}
	pool.Stop()
}
