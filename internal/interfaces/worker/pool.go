// Package worker runs batches of per-user jobs on a bounded set of goroutines.
package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	jobTracer      = otel.Tracer("paynex/worker")
	jobMeter       = otel.Meter("paynex/worker")
	jobDuration, _ = jobMeter.Float64Histogram("worker.job.duration", metric.WithDescription("Job execution duration in seconds"), metric.WithUnit("s"))
	jobTotal, _    = jobMeter.Int64Counter("worker.job.total", metric.WithDescription("Total jobs executed by status"))
)

// DefaultJobTimeout bounds a single job when the pool has no explicit timeout.
const DefaultJobTimeout = 2 * time.Minute

// Job is one unit of work for a single user.
type Job interface {
	Execute(ctx context.Context) error
	Description() string
	UserID() string
}

// Report summarizes a finished batch. Failed maps the position of a job in
// the batch to its error, so two jobs for the same user are counted apart.
type Report struct {
	Succeeded int
	Failed    map[int]error
}

// Pool executes jobs with a fixed number of workers. Each worker waits
// Delay between two jobs to stay under provider rate limits.
type Pool struct {
	Workers    int
	Delay      time.Duration
	JobTimeout time.Duration
}

// NewPool creates a pool with at least one worker.
func NewPool(workers int, delay time.Duration) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{Workers: workers, Delay: delay, JobTimeout: DefaultJobTimeout}
}

// Run executes every job and blocks until all finished or ctx is cancelled.
// Jobs not started before cancellation are reported as failed with ctx.Err().
func (p *Pool) Run(ctx context.Context, jobs []Job) Report {
	queue := make(chan int, len(jobs))
	for i := range jobs {
		queue <- i
	}
	close(queue)

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report = Report{Failed: make(map[int]error)}
	)
	record := func(idx int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			report.Failed[idx] = err
			return
		}
		report.Succeeded++
	}

	workers := min(p.Workers, len(jobs))
	log.Printf("Running %d jobs on %d workers", len(jobs), workers)

	for i := 1; i <= workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			first := true
			for idx := range queue {
				if !first && p.Delay > 0 {
					select {
					case <-time.After(p.Delay):
					case <-ctx.Done():
					}
				}
				first = false

				if err := ctx.Err(); err != nil {
					record(idx, err)
					continue
				}
				record(idx, p.process(ctx, id, jobs[idx]))
			}
		}(i)
	}

	wg.Wait()
	log.Printf("Batch finished: %d succeeded, %d failed", report.Succeeded, len(report.Failed))
	return report
}

// process executes a single job with logging and telemetry.
func (p *Pool) process(ctx context.Context, workerID int, job Job) error {
	timeout := p.JobTimeout
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := jobTracer.Start(ctx, "job.execute",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("job.description", job.Description()),
			attribute.String("job.user_id", job.UserID()),
		),
	)
	defer span.End()

	start := time.Now()
	err := job.Execute(ctx)
	jobDuration.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		log.Printf("Worker %d: Error processing %s for user %s: %v", workerID, job.Description(), job.UserID(), err)
		return err
	}

	jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	log.Printf("Worker %d: Completed %s for user %s", workerID, job.Description(), job.UserID())
	return nil
}
