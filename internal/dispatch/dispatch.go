// Package dispatch hands generation jobs to background workers. The HTTP
// layer depends only on the Dispatcher interface, so the in-process pool
// could be swapped for a queue-backed implementation without touching
// handlers.
package dispatch

import (
	"log/slog"
	"sync"

	"github.com/slidegenius/slidegenius/internal/pipeline"
)

// Dispatcher accepts a job for background execution. Submit must not block
// the caller and must not return an error: once a job record is pending,
// its outcome is reported through job status, not through the submitter.
type Dispatcher interface {
	Submit(st pipeline.State)
}

// Runner executes one job to completion. *pipeline.Runner satisfies this.
type Runner interface {
	Run(st pipeline.State)
}

// Pool is a fixed set of workers draining a bounded queue. When the queue
// is full a job runs on its own goroutine instead of being dropped; the
// bound limits steady-state concurrency, not admission.
type Pool struct {
	runner Runner
	jobs   chan pipeline.State
	wg     sync.WaitGroup
	once   sync.Once
}

func NewPool(runner Runner, workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &Pool{
		runner: runner,
		jobs:   make(chan pipeline.State, queueSize),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for st := range p.jobs {
		p.runner.Run(st)
	}
}

func (p *Pool) Submit(st pipeline.State) {
	select {
	case p.jobs <- st:
	default:
		slog.Warn("dispatch queue full, running job unpooled",
			slog.String("presentation_id", st.PresentationID.String()))
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.runner.Run(st)
		}()
	}
}

// Close stops accepting pooled work and waits for in-flight jobs, pooled
// and unpooled, to finish. Submit must not be called after Close.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}

var _ Dispatcher = (*Pool)(nil)
