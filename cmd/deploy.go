package cmd

import (
	"time"

	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/deploy"
	"github.com/emrgen/resumectl/internal/output"
	"github.com/spf13/cobra"
)

func envCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "env [environment]",
		Short:   "write .env.<environment> from the deployed backend outputs",
		Example: "resumectl env prod",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := envArg(args, 0, config.Development)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(env)
			if err != nil {
				return err
			}

			outputs, path, err := deploy.GenerateEnvFile(cfg, env)
			if err != nil {
				return err
			}

			output.Info("endpoint: %s", outputs.Endpoint)
			output.Info("region: %s", outputs.Region)
			output.Success("wrote %s", path)
			return nil
		},
	}

	return command
}

func deployCmd() *cobra.Command {
	var force bool

	command := &cobra.Command{
		Use:     "deploy [environment]",
		Short:   "push the backend schema when it changed since the last deploy",
		Example: "resumectl deploy dev --force",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := envArg(args, 0, config.Development)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(env)
			if err != nil {
				return err
			}

			runner := &deploy.ShellRunner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
			res, err := deploy.NewDeployer(cfg, env, runner).Deploy(cmd.Context(), force)
			if err != nil {
				return err
			}

			if res.Skipped {
				output.Success("schema unchanged since %s, nothing to deploy (use --force to redeploy)", res.LastDeploy.Format(time.RFC3339))
				return nil
			}

			output.Success("deployed %s (%d schema files)", env, res.Files)
			if res.EnvFile != "" {
				output.Success("wrote %s", res.EnvFile)
			} else {
				output.Warning("backend outputs not found, run resumectl env %s after the deploy settles", env.Short())
			}
			return nil
		},
	}
	command.Flags().BoolVarP(&force, "force", "f", false, "deploy even when the schema is unchanged")

	return command
}
