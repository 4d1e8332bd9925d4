package cmd

import (
	"context"
	"os/signal"
	"strconv"
	"time"

	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/jobs"
	"github.com/emrgen/resumectl/internal/output"
	"github.com/emrgen/resumectl/internal/service"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

func syncCmd() *cobra.Command {
	var bidirectional bool
	var every time.Duration

	command := &cobra.Command{
		Use:   "sync [sourceEnvironment] [targetEnvironment]",
		Short: "copy every record from one environment to another, keeping ids",
		Example: `resumectl sync dev prod
resumectl sync prod dev --bidirectional
resumectl sync dev prod --every 15m`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := envArg(args, 0, config.Development)
			if err != nil {
				return err
			}
			dst, err := envArg(args, 1, other(src))
			if err != nil {
				return err
			}

			dir := service.OneWay
			if bidirectional {
				dir = service.Bidirectional
			}

			a, err := newApp(cmd.Context(), src)
			if err != nil {
				return err
			}
			defer a.Close()

			if every > 0 {
				return syncEvery(cmd.Context(), a, src, dst, dir, every)
			}

			report, err := a.syncer().Sync(cmd.Context(), src, dst, dir)
			if report != nil {
				printSyncReport(report)
			}
			return err
		},
	}
	command.Flags().BoolVarP(&bidirectional, "bidirectional", "b", false, "also copy target records back to the source")
	command.Flags().DurationVar(&every, "every", 0, "repeat the sync on this interval until interrupted")

	return command
}

func syncEvery(ctx context.Context, a *app, src, dst config.Environment, dir service.Direction, every time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, unix.SIGTERM, unix.SIGINT)
	defer stop()

	job := jobs.NewSyncJob(ctx, a.syncer(), src, dst, dir, every)
	job.OnReport = func(report *service.SyncReport, err error) {
		if err != nil {
			output.Error("%v", err)
			return
		}
		printSyncReport(report)
	}

	executor := jobs.NewTaskExecutor(job)
	if err := executor.Run(); err != nil {
		return err
	}
	output.Info("syncing %s -> %s every %s, press ctrl-c to stop", src, dst, every)

	<-ctx.Done()
	// the pass in flight sees the cancelled ctx, the stores close after it returns
	executor.Stop()
	return nil
}

func printSyncReport(report *service.SyncReport) {
	for _, pass := range report.Passes {
		table := tablewriter.NewWriter(output.Writer())
		table.SetHeader([]string{"Entity", "Read", "Written", "Skipped", "Failed"})
		for _, c := range pass.Entities {
			table.Append([]string{c.Entity, strconv.Itoa(c.Read), strconv.Itoa(c.Written), strconv.Itoa(c.Skipped), strconv.Itoa(c.Failed)})
		}
		table.Render()

		total := pass.Totals()
		if total.Failed > 0 {
			output.Warning("%s -> %s: %d read, %d written, %d skipped, %d failed", pass.Source, pass.Target, total.Read, total.Written, total.Skipped, total.Failed)
		} else {
			output.Success("%s -> %s: %d read, %d written, %d skipped", pass.Source, pass.Target, total.Read, total.Written, total.Skipped)
		}
	}
}
