// Package worker runs the best-effort tail of a request - index sync and
// cache busting - off the response path. Tasks are never awaited by the
// caller, and a task that fails is logged and dropped, never retried.
package worker

import (
	"context"
	"log"
	"sync"
	"time"
)

type task struct {
	name string
	fn   func(ctx context.Context) error
}

// Pool is a bounded fire-and-forget task queue.
type Pool struct {
	tasks       chan task
	wg          sync.WaitGroup
	taskTimeout time.Duration

	closeOnce sync.Once
}

// New starts size workers behind a queue of the given depth.
func New(size, queue int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{
		tasks:       make(chan task, queue),
		taskTimeout: 15 * time.Second,
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for t := range p.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), p.taskTimeout)
		if err := t.fn(ctx); err != nil {
			log.Printf("background task %s: %v", t.name, err)
		}
		cancel()
	}
}

// Submit enqueues a task. When the queue is full the task is dropped with a
// log line; callers must already tolerate the tail never running.
func (p *Pool) Submit(name string, fn func(ctx context.Context) error) {
	select {
	case p.tasks <- task{name: name, fn: fn}:
	default:
		log.Printf("background queue full, dropping task %s", name)
	}
}

// Stop drains queued tasks and waits for workers to finish.
func (p *Pool) Stop() {
	p.closeOnce.Do(func() { close(p.tasks) })
	p.wg.Wait()
}
