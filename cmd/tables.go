package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/credentials"
	"github.com/emrgen/resumectl/internal/deploy"
	"github.com/emrgen/resumectl/internal/model"
	"github.com/emrgen/resumectl/internal/output"
	"github.com/emrgen/resumectl/internal/store"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func listTablesCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "list-tables [environment]",
		Short:   "list the backend tables of an environment",
		Example: "resumectl list-tables prod",
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

			target, err := a.connector.Connect(cmd.Context(), env)
			if err != nil {
				return err
			}

			names, err := target.Store.ListTables(cmd.Context())
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(output.Writer())
			table.SetHeader([]string{"Table", "Entity"})
			for _, name := range names {
				table.Append([]string{name, entityOf(name, target.Suffix)})
			}
			table.Render()

			output.Success("%d tables in %s", len(names), env)
			return nil
		},
	}

	return command
}

// entityOf returns the entity a table belongs to in the suffix's environment.
func entityOf(table, suffix string) string {
	for _, name := range model.Names() {
		if store.TableName(name, suffix) == table {
			return name
		}
	}
	return "-"
}

func createTablesCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "create-tables [environment]",
		Short:   "create every entity table and wait until it is active",
		Example: "resumectl create-tables dev",
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

			return createTables(cmd, a, env)
		},
	}

	return command
}

func createTables(cmd *cobra.Command, a *app, env config.Environment) error {
	target, err := a.connector.Connect(cmd.Context(), env)
	if err != nil {
		return err
	}

	ready, err := a.upserter.EnsureTables(cmd.Context(), target)
	for _, name := range ready {
		output.Success("table %s is active", name)
	}
	return err
}

func statusCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "status [environment]",
		Short:   "show credentials, table status and record counts",
		Example: "resumectl status prod",
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

			desc, err := credentials.NewResolver(a.cfg).Resolve(env)
			if err != nil {
				return err
			}
			output.Section(fmt.Sprintf("%s (%s backend)", env, a.cfg.Backend))
			output.Info("credentials: %s", desc.Summary())

			if cache, err := deploy.LoadCache(a.cfg.DeployCacheFile); err == nil && !cache.LastDeploy.IsZero() {
				output.Info("last deploy: %s (%d schema files)", cache.LastDeploy.Format(time.RFC3339), len(cache.Hashes))
			} else {
				output.Info("last deploy: never")
			}

			target, err := a.connector.Connect(cmd.Context(), env)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(output.Writer())
			table.SetHeader([]string{"Entity", "Table", "Status", "Records"})
			missing := 0
			for _, d := range model.Registry() {
				t, err := target.Table(d.Name)
				if err != nil {
					return err
				}

				status, err := t.Status(cmd.Context())
				if err != nil {
					return err
				}

				count := "-"
				if status == store.TableActive {
					records, err := t.Records(cmd.Context())
					if err != nil {
						count = "error"
					} else {
						count = strconv.Itoa(len(records))
					}
				} else {
					missing++
				}
				table.Append([]string{d.Name, t.Name(), output.StatusIcon(string(status)) + " " + strings.ToLower(string(status)), count})
			}
			table.Render()

			if missing > 0 {
				output.Warning("%d tables are not active, run create-tables %s", missing, env.Short())
			} else {
				output.Success("all %d tables are active", len(model.Names()))
			}
			return nil
		},
	}

	return command
}
