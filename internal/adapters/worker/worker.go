// Package worker runs batch valuations on a fixed-size pool of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/fairdeal/internal/domain/model"
	"github.com/okian/fairdeal/pkg/logger"
	"github.com/okian/fairdeal/pkg/metrics"
)

const defaultWorkerMultiplier = 2

// Valuer computes a single valuation.
type Valuer interface {
	Value(in model.ValuationInputs) (model.ValuationResult, error)
}

// Job is one valuation in a batch.
type Job struct {
	Inputs model.ValuationInputs
}

// Result is the outcome of one Job, at the same index as its Job.
type Result struct {
	Value model.ValuationResult
	Err   error
}

type task struct {
	ctx   context.Context //nolint:containedctx // carries the submitter's deadline to the worker
	pos   int
	job   Job
	reply chan<- indexed
}

type indexed struct {
	pos int
	res Result
}

// Pool is a fixed set of workers consuming valuation tasks.
type Pool struct {
	valuer Valuer
	size   int
	buffer int
	name   string

	mu      sync.RWMutex
	started bool
	closed  bool

	tasks chan task
	// runCtx ends when the Start context ends or Shutdown is called.
	runCtx context.Context //nolint:containedctx // lifetime of the workers
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below 1 defaults to
// twice the CPU count.
func NewPool(workerCount int, valuer Valuer, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{
		valuer:   valuer,
		size:     workerCount,
		buffer:   workerCount,
		name:     "worker-pool",
		logger:   logger.Get(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named(p.name)
	p.tasks = make(chan task, p.buffer)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Start launches the workers. Calling it twice is a no-op. When ctx ends
// the pool closes: pending and later submissions fail with ErrPoolClosed.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true
	p.runCtx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(p.runCtx, "worker-"+strconv.Itoa(i))
	}
	metrics.UpdateWorkerCount(p.size)
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", p.size))
}

func (p *Pool) run(ctx context.Context, name string) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-p.tasks:
			t.reply <- indexed{pos: t.pos, res: p.process(t, name)}
		}
	}
}

func (p *Pool) process(t task, name string) Result {
	if err := t.ctx.Err(); err != nil {
		return Result{Err: err}
	}

	metrics.IncWorkerActive()
	start := time.Now()
	v, err := p.valuer.Value(t.job.Inputs)
	metrics.DecWorkerActive()
	metrics.RecordWorkerJob(float64(time.Since(start).Microseconds()) / 1000)

	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "valuation_error")
		p.logger.Debug(t.ctx, "valuation failed",
			logger.String("worker", name),
			logger.Int("index", t.pos),
			logger.Error(err),
		)
	}
	return Result{Value: v, Err: err}
}

// Submit runs jobs on the pool and returns their results in job order. It
// blocks until every job finishes or ctx is done.
func (p *Pool) Submit(ctx context.Context, jobs []Job) ([]Result, error) {
	reply := make(chan indexed, len(jobs))

	done, err := p.enqueue(ctx, jobs, reply)
	if err != nil {
		return nil, err
	}

	out := make([]Result, len(jobs))
	for n := 0; n < len(jobs); n++ {
		select {
		case r := <-reply:
			out[r.pos] = r.res
		case <-done:
			return nil, ErrPoolClosed
		case <-ctx.Done():
			return nil, fmt.Errorf("worker.submit: %w", ctx.Err())
		}
	}
	return out, nil
}

// enqueue hands jobs to the workers and returns the channel that closes
// with the pool. The lock only guards the state check; sends happen
// outside it so Shutdown never waits on a blocked submitter.
func (p *Pool) enqueue(ctx context.Context, jobs []Job, reply chan<- indexed) (<-chan struct{}, error) {
	p.mu.RLock()
	ok := p.started && !p.closed && p.runCtx.Err() == nil
	var done <-chan struct{}
	if ok {
		done = p.runCtx.Done()
	}
	p.mu.RUnlock()

	if !ok {
		return nil, ErrPoolClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("worker.submit: %w", err)
	}
	for i, j := range jobs {
		select {
		case p.tasks <- task{ctx: ctx, pos: i, job: j, reply: reply}:
		case <-done:
			return nil, ErrPoolClosed
		case <-ctx.Done():
			return nil, fmt.Errorf("worker.submit: %w", ctx.Err())
		}
	}
	return done, nil
}

// Shutdown stops the workers and waits for them, up to ctx's deadline.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		metrics.UpdateWorkerCount(0)
		p.logger.Info(ctx, "worker pool stopped")
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "worker pool shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
