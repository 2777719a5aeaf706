package relayrunner

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"alevatex/internal/metrics"
	"alevatex/internal/ports"
)

var _ ports.Dispatcher = (*Pool)(nil)

// Pool sends relay jobs on a fixed set of worker goroutines so outbound form
// relay traffic stays bounded regardless of request volume.
type Pool struct {
	relay   ports.Relay
	log     logrus.FieldLogger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	jobs    chan ports.RelayJob // nil until Run
	ctx     context.Context
	stopped chan struct{} // closed once every worker has returned
}

func New(relay ports.Relay, log logrus.FieldLogger, m *metrics.Metrics) *Pool {
	return &Pool{relay: relay, log: log.WithField("component", "relayrunner"), metrics: m}
}

// Run starts concurrency workers. They stop when ctx is cancelled; later
// Dispatch calls fall back to sending inline.
func (p *Pool) Run(ctx context.Context, concurrency int) {
	if concurrency < 1 {
		return
	}
	jobs := make(chan ports.RelayJob, concurrency)
	stopped := make(chan struct{})
	p.mu.Lock()
	p.jobs = jobs
	p.ctx = ctx
	p.stopped = stopped
	p.mu.Unlock()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job := <-jobs:
					err := p.send(job.Ctx, job.Fields)
					if err != nil {
						p.log.WithError(err).WithField("worker", idx).Warn("relay failed")
					}
					job.Done <- err
				}
			}
		}(i)
	}

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		p.jobs = nil
		p.mu.Unlock()
		wg.Wait()
		close(stopped)
	}()
}

// Dispatch queues fields for a worker and waits for the relay outcome. With no
// running workers it sends on the calling goroutine, and a job the workers
// leave queued at shutdown is sent the same way.
func (p *Pool) Dispatch(ctx context.Context, fields map[string]string) error {
	p.mu.RLock()
	jobs, poolCtx, stopped := p.jobs, p.ctx, p.stopped
	p.mu.RUnlock()
	if jobs == nil || poolCtx.Err() != nil {
		return p.send(ctx, fields)
	}

	job := ports.RelayJob{Ctx: ctx, Fields: fields, Done: make(chan error, 1)}
	select {
	case jobs <- job:
	case <-ctx.Done():
		return ctx.Err()
	case <-poolCtx.Done():
		return p.send(ctx, fields)
	}
	select {
	case err := <-job.Done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-poolCtx.Done():
	}

	// Workers are stopping: the job either completes or stays queued.
	select {
	case <-stopped:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-job.Done:
		return err
	default:
		return p.send(ctx, fields)
	}
}

func (p *Pool) send(ctx context.Context, fields map[string]string) error {
	err := p.relay.Send(ctx, fields)
	if p.metrics != nil {
		result := "success"
		if err != nil {
			result = "error"
		}
		p.metrics.RelayRequests.WithLabelValues(result).Inc()
	}
	return err
}
