package cmd

import (
	"errors"
	"os"

	"github.com/emrgen/resumectl/internal/output"
	"github.com/emrgen/resumectl/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	envFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "resumectl <command> [environment] [targetEnvironment]",
	Short: "seed and sync resume data across environments",
	Example: `resumectl list-tables dev
resumectl create-tables prod
resumectl seed-data dev --tag seed-demo
resumectl seed dev
resumectl cleanup seed-demo dev
resumectl sync dev prod --bidirectional
resumectl env prod
resumectl deploy dev --force
resumectl status prod`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.InfoLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			output.Warning("unknown command %q", args[0])
		}
		_ = cmd.Usage()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func reportError(err error) {
	output.Error("%v", err)

	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		output.Info("%s", authErr.Guidance())
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load settings from this env file (must exist)")

	rootCmd.AddCommand(listTablesCmd())
	rootCmd.AddCommand(createTablesCmd())
	rootCmd.AddCommand(seedDataCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(cleanupCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(envCmd())
	rootCmd.AddCommand(deployCmd())
	rootCmd.AddCommand(statusCmd())

	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
