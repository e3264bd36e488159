package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingJob struct {
	name  string
	runs  atomic.Int32
	block chan struct{}
	err   error
	panic bool

	mu      sync.Mutex
	started int
	stopped int
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.block != nil {
		<-j.block
	}
	if j.panic {
		panic("boom")
	}
	return j.err
}

func (j *countingJob) Start() {
	j.mu.Lock()
	j.started++
	j.mu.Unlock()
}

func (j *countingJob) Stop() {
	j.mu.Lock()
	j.stopped++
	j.mu.Unlock()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestRunner_FirstTickAtStart(t *testing.T) {
	r := NewRunner(&mockLogger{})
	job := &countingJob{name: "tick"}
	if err := r.Every(time.Hour, job); err != nil {
		t.Fatalf("Every: %v", err)
	}

	r.Start(context.Background())
	waitFor(t, func() bool { return job.runs.Load() == 1 })

	if err := r.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if job.started != 1 || job.stopped != 1 {
		t.Errorf("lifecycle = %d starts, %d stops", job.started, job.stopped)
	}
}

func TestRunner_CronSpecNoImmediateTick(t *testing.T) {
	r := NewRunner(&mockLogger{})
	job := &countingJob{name: "daily"}
	if err := r.Cron("@daily", job); err != nil {
		t.Fatalf("Cron: %v", err)
	}
	r.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	_ = r.Stop(context.Background())

	if job.runs.Load() != 0 {
		t.Error("cron-spec jobs must wait for their schedule")
	}
}

func TestRunner_StopWaitsForRunningTick(t *testing.T) {
	r := NewRunner(&mockLogger{})
	job := &countingJob{name: "slow", block: make(chan struct{})}
	_ = r.Every(time.Hour, job)
	r.Start(context.Background())
	waitFor(t, func() bool { return job.runs.Load() == 1 })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := r.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Stop err = %v, want deadline exceeded", err)
	}
	close(job.block)
}

func TestRunner_SurvivesFailingJobs(t *testing.T) {
	r := NewRunner(&mockLogger{})
	failing := &countingJob{name: "failing", err: errors.New("nope")}
	panicking := &countingJob{name: "panicking", panic: true}
	_ = r.Every(time.Hour, failing)
	_ = r.Every(time.Hour, panicking)

	r.Start(context.Background())
	waitFor(t, func() bool { return failing.runs.Load() == 1 && panicking.runs.Load() == 1 })
	if err := r.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestRunner_Registration(t *testing.T) {
	r := NewRunner(&mockLogger{})
	if err := r.Every(0, &countingJob{name: "zero"}); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("err = %v, want ErrInvalidInterval", err)
	}
	if err := r.Cron("not a spec", &countingJob{name: "bad"}); err == nil {
		t.Error("expected error for bad spec")
	}

	r.Start(context.Background())
	defer r.Stop(context.Background())
	if err := r.Every(time.Minute, &countingJob{name: "late"}); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("err = %v, want ErrAlreadyStarted", err)
	}
}

func TestCleanupJob(t *testing.T) {
	cleaner := &fakeCleaner{}
	job := NewCleanupJob(cleaner, 48*time.Hour)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if cleaner.olderThan != 48*time.Hour {
		t.Errorf("olderThan = %s", cleaner.olderThan)
	}
}

type fakeCleaner struct {
	olderThan time.Duration
}

func (f *fakeCleaner) CleanupEndedSessions(ctx context.Context, olderThan time.Duration) (int64, error) {
	f.olderThan = olderThan
	return 3, nil
}
