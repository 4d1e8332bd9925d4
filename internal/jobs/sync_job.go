package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/service"
	"github.com/sirupsen/logrus"
)

// Syncer is the part of the sync orchestrator a SyncJob drives.
type Syncer interface {
	Sync(ctx context.Context, src, dst config.Environment, dir service.Direction) (*service.SyncReport, error)
}

// SyncJob runs one full sync pass per cron tick. Every run is bound to ctx, so
// cancelling it aborts a pass in flight.
type SyncJob struct {
	ctx       context.Context
	syncer    Syncer
	src, dst  config.Environment
	direction service.Direction
	schedule  string
	timeout   time.Duration
	// OnReport receives the outcome of every run.
	OnReport func(*service.SyncReport, error)
}

func NewSyncJob(ctx context.Context, syncer Syncer, src, dst config.Environment, dir service.Direction, every time.Duration) *SyncJob {
	return &SyncJob{
		ctx:       ctx,
		syncer:    syncer,
		src:       src,
		dst:       dst,
		direction: dir,
		schedule:  fmt.Sprintf("@every %s", every),
		timeout:   every * 10,
	}
}

func (j *SyncJob) Name() string {
	return fmt.Sprintf("sync %s -> %s (%s)", j.src, j.dst, j.direction)
}

func (j *SyncJob) Schedule() string {
	return j.schedule
}

func (j *SyncJob) Run() {
	if err := j.ctx.Err(); err != nil {
		logrus.Debugf("%s not started: %v", j.Name(), err)
		return
	}

	ctx, cancel := context.WithTimeout(j.ctx, j.timeout)
	defer cancel()

	report, err := j.syncer.Sync(ctx, j.src, j.dst, j.direction)
	if err != nil {
		logrus.Errorf("%s failed: %v", j.Name(), err)
	} else {
		for _, pass := range report.Passes {
			total := pass.Totals()
			logrus.Infof("%s -> %s: read %d, wrote %d, skipped %d, failed %d",
				pass.Source, pass.Target, total.Read, total.Written, total.Skipped, total.Failed)
		}
	}

	if j.OnReport != nil {
		j.OnReport(report, err)
	}
}
