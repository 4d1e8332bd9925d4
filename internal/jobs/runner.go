package jobs

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

type Job interface {
	Name() string
	Run()
}

type CronJob interface {
	Schedule() string
	Job
}

// TaskExecutor runs cron jobs, skipping a tick while the previous run of the
// same job is still in progress.
type TaskExecutor struct {
	cron            *cron.Cron
	cronJobs        []CronJob
	runningCronJobs mapset.Set[string]
	muCronJobs      sync.Mutex
	stopped         bool
	inFlight        sync.WaitGroup
}

func NewTaskExecutor(cronJobs ...CronJob) *TaskExecutor {
	return &TaskExecutor{
		cron:            cron.New(),
		cronJobs:        cronJobs,
		runningCronJobs: mapset.NewThreadUnsafeSet[string](),
	}
}

// Run schedules every job and starts the cron in its own goroutine.
func (t *TaskExecutor) Run() error {
	for _, job := range t.cronJobs {
		if err := t.cron.AddFunc(job.Schedule(), t.wrap(job)); err != nil {
			logrus.Errorf("failed to add task %s to cron: %v", job.Name(), err)
			return err
		}
		logrus.Infof("scheduled %s (%s)", job.Name(), job.Schedule())
	}

	t.cron.Start()
	return nil
}

func (t *TaskExecutor) wrap(job CronJob) func() {
	return func() {
		t.muCronJobs.Lock()
		if t.stopped {
			t.muCronJobs.Unlock()
			return
		}
		if t.runningCronJobs.Contains(job.Name()) {
			t.muCronJobs.Unlock()
			logrus.Warnf("task %s is still running, skipping this tick", job.Name())
			return
		}
		t.runningCronJobs.Add(job.Name())
		t.inFlight.Add(1)
		t.muCronJobs.Unlock()

		defer func() {
			t.muCronJobs.Lock()
			defer t.muCronJobs.Unlock()
			t.runningCronJobs.Remove(job.Name())
			t.inFlight.Done()
		}()

		job.Run()
	}
}

// Stop stops scheduling and blocks until the runs in progress return.
func (t *TaskExecutor) Stop() {
	logrus.Infof("stopping all tasks")
	t.muCronJobs.Lock()
	t.stopped = true
	t.muCronJobs.Unlock()

	t.cron.Stop()
	t.inFlight.Wait()
}
