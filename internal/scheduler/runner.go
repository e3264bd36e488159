package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	pkgLog "personal-assistant/pkg/log"
)

type entry struct {
	job     Job
	spec    string
	atStart bool
	running atomic.Bool
}

// Runner drives jobs on robfig/cron schedules inside this process.
type Runner struct {
	l       pkgLog.Logger
	cron    *cron.Cron
	entries []*entry

	mu      sync.Mutex
	started bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRunner creates an idle runner. Register jobs with Every or Cron, then Start.
func NewRunner(l pkgLog.Logger) *Runner {
	return &Runner{
		l:    l,
		cron: cron.New(cron.WithLogger(cronLogger{l: l})),
	}
}

// Every schedules job at a fixed interval. The first tick runs right after Start.
func (r *Runner) Every(interval time.Duration, job Job) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s=%s", ErrInvalidInterval, job.Name(), interval)
	}
	return r.add("@every "+interval.String(), job, true)
}

// Cron schedules job with a standard five-field spec or a descriptor like @daily.
func (r *Runner) Cron(spec string, job Job) error {
	return r.add(spec, job, false)
}

func (r *Runner) add(spec string, job Job, atStart bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return ErrAlreadyStarted
	}

	e := &entry{job: job, spec: spec, atStart: atStart}
	if _, err := r.cron.AddFunc(spec, func() { r.tick(e) }); err != nil {
		return fmt.Errorf("scheduler: add %s: %w", job.Name(), err)
	}
	r.entries = append(r.entries, e)
	return nil
}

// Start begins scheduling. Interval jobs get an immediate first tick.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.ctx, r.cancel = context.WithCancel(context.WithoutCancel(ctx))
	r.mu.Unlock()

	for _, e := range r.entries {
		if lc, ok := e.job.(Lifecycle); ok {
			lc.Start()
		}
	}

	r.cron.Start()

	for _, e := range r.entries {
		if !e.atStart {
			continue
		}
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.tick(e)
		}()
	}

	r.l.Infof(ctx, "Scheduler.Start: %d job(s) scheduled", len(r.entries))
}

// Stop stops scheduling and waits for in-flight ticks, bounded by ctx.
// Job state is dropped once the wait ends.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return nil
	}
	r.started = false
	r.mu.Unlock()

	cronDone := r.cron.Stop()
	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		r.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
		r.l.Warnf(ctx, "Scheduler.Stop: gave up waiting for running jobs: %v", err)
	}
	r.cancel()

	for _, e := range r.entries {
		if lc, ok := e.job.(Lifecycle); ok {
			lc.Stop()
		}
	}

	r.l.Infof(ctx, "Scheduler.Stop: stopped")
	return err
}

// tick runs one job invocation. A tick that fires while the previous one is
// still running is skipped.
func (r *Runner) tick(e *entry) {
	if !e.running.CompareAndSwap(false, true) {
		r.l.Debugf(r.ctx, "Scheduler.tick: %s still running, skipping", e.job.Name())
		return
	}
	defer e.running.Store(false)

	ctx := pkgLog.WithTraceID(r.ctx, uuid.NewString())
	defer func() {
		if rec := recover(); rec != nil {
			r.l.Errorf(ctx, "Scheduler.tick: %s panicked: %v", e.job.Name(), rec)
		}
	}()

	if err := e.job.Run(ctx); err != nil {
		r.l.Errorf(ctx, "Scheduler.tick: %s failed: %v", e.job.Name(), err)
	}
}
