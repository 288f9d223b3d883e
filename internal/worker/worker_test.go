package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"alltech-pos/internal/worker"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	p := worker.New(2, 8)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		p.Submit("count", func(context.Context) error {
			ran.Add(1)
			return nil
		})
	}
	p.Stop()

	assert.Equal(t, int32(5), ran.Load())
}

func TestPoolDropsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	p := worker.New(1, 1)

	// Occupy the single worker, then fill the single queue slot.
	p.Submit("blocker", func(context.Context) error {
		close(started)
		<-block
		return nil
	})
	<-started
	p.Submit("queued", func(context.Context) error { return nil })

	var ran atomic.Bool
	p.Submit("dropped", func(context.Context) error {
		ran.Store(true)
		return nil
	})

	close(block)
	p.Stop()

	assert.False(t, ran.Load(), "overflow task is dropped, not queued")
}

func TestPoolSurvivesFailingTask(t *testing.T) {
	p := worker.New(1, 4)

	var ran atomic.Bool
	p.Submit("fails", func(context.Context) error { return errors.New("boom") })
	p.Submit("after", func(context.Context) error {
		ran.Store(true)
		return nil
	})
	p.Stop()

	assert.True(t, ran.Load(), "a failed task never takes the worker down")
}

func TestStopIsIdempotent(t *testing.T) {
	p := worker.New(1, 1)
	p.Stop()
	assert.NotPanics(t, func() { p.Stop() })
}
