package main

import (
	"github.com/2beens/syclar/internal/config"
	"github.com/2beens/syclar/internal/logging"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	env        string
	configPath string
	logLevel   string
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.Load(o.env, o.configPath)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "syclarctl",
		Short:         "Operate the syclar activity service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logging.Setup(logging.LoggerSetupParams{
				LogToStdout: true,
				LogLevel:    opts.logLevel,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newShowCmd(opts),
		newSimulateCmd(opts),
		newResetCmd(opts),
		newHashPasswordCmd(),
		newCatalogCmd(),
		newBackupCmd(opts),
	)
	return cmd
}
