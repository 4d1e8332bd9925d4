package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingJob struct {
	runs    atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (b *blockingJob) Name() string     { return "blocking" }
func (b *blockingJob) Schedule() string { return "@every 1h" }
func (b *blockingJob) Run() {
	b.runs.Add(1)
	b.started <- struct{}{}
	<-b.release
}

func TestTaskExecutor_SkipsOverlappingRuns(t *testing.T) {
	job := &blockingJob{started: make(chan struct{}, 1), release: make(chan struct{})}
	executor := NewTaskExecutor(job)
	tick := executor.wrap(job)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tick()
	}()
	<-job.started

	// second tick returns immediately while the first run holds the job
	tick()
	assert.Equal(t, int32(1), job.runs.Load())

	close(job.release)
	wg.Wait()

	go tick()
	<-job.started
	assert.Equal(t, int32(2), job.runs.Load())
}

func TestTaskExecutor_RejectsBadSchedule(t *testing.T) {
	job := NewSyncJob(context.Background(), &fakeSyncer{}, config.Development, config.Production, service.OneWay, 0)
	job.schedule = "not a schedule"

	executor := NewTaskExecutor(job)
	assert.Error(t, executor.Run())
}

type fakeSyncer struct {
	calls atomic.Int32
	err   error
	// block, when set, holds Sync until its ctx is done
	block bool
}

func (f *fakeSyncer) Sync(ctx context.Context, src, dst config.Environment, dir service.Direction) (*service.SyncReport, error) {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &service.SyncReport{Source: src, Target: dst, Direction: dir, Passes: []*service.SyncPass{{Source: src, Target: dst}}}, nil
}

func TestSyncJob_Run(t *testing.T) {
	syncer := &fakeSyncer{}
	job := NewSyncJob(context.Background(), syncer, config.Development, config.Production, service.Bidirectional, time.Minute)
	assert.Equal(t, "@every 1m0s", job.Schedule())

	var got *service.SyncReport
	job.OnReport = func(report *service.SyncReport, err error) {
		require.NoError(t, err)
		got = report
	}
	job.Run()

	assert.Equal(t, int32(1), syncer.calls.Load())
	require.NotNil(t, got)
	assert.Equal(t, service.Bidirectional, got.Direction)
}

func TestSyncJob_RunError(t *testing.T) {
	syncer := &fakeSyncer{err: errors.New("expired token")}
	job := NewSyncJob(context.Background(), syncer, config.Development, config.Production, service.OneWay, time.Minute)

	var gotErr error
	job.OnReport = func(_ *service.SyncReport, err error) { gotErr = err }
	job.Run()

	assert.EqualError(t, gotErr, "expired token")
}

func TestTaskExecutor_RunsScheduledJob(t *testing.T) {
	syncer := &fakeSyncer{}
	job := NewSyncJob(context.Background(), syncer, config.Development, config.Production, service.OneWay, time.Second)
	done := make(chan struct{}, 1)
	job.OnReport = func(*service.SyncReport, error) {
		select {
		case done <- struct{}{}:
		default:
		}
	}

	executor := NewTaskExecutor(job)
	require.NoError(t, executor.Run())
	defer executor.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sync job did not run")
	}
}

func TestTaskExecutor_StopWaitsForRun(t *testing.T) {
	job := &blockingJob{started: make(chan struct{}, 1), release: make(chan struct{})}
	executor := NewTaskExecutor(job)
	tick := executor.wrap(job)

	go tick()
	<-job.started

	stopped := make(chan struct{})
	go func() {
		executor.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a run was in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(job.release)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the run finished")
	}

	// ticks after Stop do nothing
	tick()
	assert.Equal(t, int32(1), job.runs.Load())
}

func TestSyncJob_CancelAbortsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	syncer := &fakeSyncer{block: true}
	job := NewSyncJob(ctx, syncer, config.Development, config.Production, service.OneWay, time.Hour)

	errs := make(chan error, 1)
	job.OnReport = func(_ *service.SyncReport, err error) { errs <- err }
	go job.Run()

	require.Eventually(t, func() bool { return syncer.calls.Load() == 1 }, 5*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled sync did not return")
	}

	// a cancelled job does not start another pass
	job.Run()
	assert.Equal(t, int32(1), syncer.calls.Load())
}
