package cmd

import (
	"strconv"

	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/output"
	"github.com/emrgen/resumectl/internal/seed"
	"github.com/emrgen/resumectl/internal/service"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type seedFlags struct {
	tag        string
	cleanupTag string
}

func (f *seedFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.tag, "tag", "t", "", "run tag embedded in generated records (default SEED_TAG or a fresh seed-xxxxxxxx)")
	cmd.Flags().StringVar(&f.cleanupTag, "cleanup-tag", "", "delete records of an earlier run with this tag before seeding")
}

func seedDataCmd() *cobra.Command {
	var flags seedFlags

	command := &cobra.Command{
		Use:     "seed-data [environment]",
		Short:   "write a generated resume record graph",
		Example: "resumectl seed-data dev --tag seed-demo --cleanup-tag seed-old",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := envArg(args, 0, config.Development)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), env)
			if err != nil {
				return err
			}
			defer a.Close()

			return seedData(cmd, a, env, flags)
		},
	}
	flags.register(command)

	return command
}

func seedCmd() *cobra.Command {
	var flags seedFlags

	command := &cobra.Command{
		Use:     "seed [environment]",
		Short:   "create the tables then seed them",
		Example: "resumectl seed prod",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := envArg(args, 0, config.Development)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), env)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := createTables(cmd, a, env); err != nil {
				return err
			}
			return seedData(cmd, a, env, flags)
		},
	}
	flags.register(command)

	return command
}

func seedData(cmd *cobra.Command, a *app, env config.Environment, flags seedFlags) error {
	tag := flags.tag
	if tag == "" {
		tag = a.cfg.Tag
	}
	if tag == "" {
		tag = seed.NewTag()
	}

	report, err := a.seeder().Seed(cmd.Context(), env, tag, service.SeedOptions{CleanupTag: flags.cleanupTag})
	if report != nil && report.Cleanup != nil {
		output.Info("removed %d records tagged %s", report.Cleanup.Deleted(), report.Cleanup.Tag)
	}
	if report != nil && len(report.Entities) > 0 {
		printSeedReport(report)
	}
	if err != nil {
		return err
	}

	totals := report.Totals()
	if totals.Failed > 0 {
		output.Warning("seeded %s with tag %s: %d written, %d skipped, %d failed", env, tag, totals.Written, totals.Skipped, totals.Failed)
	} else {
		output.Success("seeded %s with tag %s: %d written, %d skipped", env, tag, totals.Written, totals.Skipped)
	}
	output.Muted("remove this run with: resumectl cleanup %s %s", tag, env.Short())
	return nil
}

func printSeedReport(report *service.SeedReport) {
	table := tablewriter.NewWriter(output.Writer())
	table.SetHeader([]string{"Entity", "Written", "Skipped", "Failed"})
	for _, c := range report.Entities {
		table.Append([]string{c.Entity, strconv.Itoa(c.Written), strconv.Itoa(c.Skipped), strconv.Itoa(c.Failed)})
	}
	table.Render()

	for _, msg := range report.Messages {
		logrus.Debug(msg)
	}
}

func cleanupCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "cleanup <tag> [environment]",
		Short:   "delete every record carrying a run tag",
		Example: "resumectl cleanup seed-demo dev",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := args[0]
			env, err := envArg(args, 1, config.Development)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), env)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.seeder().Cleanup(cmd.Context(), env, tag)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(output.Writer())
			table.SetHeader([]string{"Entity", "Deleted", "Failed"})
			failed := 0
			for _, c := range report.Entities {
				table.Append([]string{c.Entity, strconv.Itoa(c.Deleted), strconv.Itoa(c.Failed)})
				failed += c.Failed
			}
			table.Render()

			if failed > 0 {
				output.Warning("removed %d records tagged %s from %s, %d failed", report.Deleted(), tag, env, failed)
			} else {
				output.Success("removed %d records tagged %s from %s", report.Deleted(), tag, env)
			}
			return nil
		},
	}

	return command
}
