// Package cmd wires the command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	configcmd "github.com/tphakala/simple-notes/cmd/config"
	notescmd "github.com/tphakala/simple-notes/cmd/notes"
	"github.com/tphakala/simple-notes/cmd/serve"
	"github.com/tphakala/simple-notes/internal/conf"
	"github.com/tphakala/simple-notes/internal/logger"
)

// RootCommand creates and returns the root command. Subcommands share
// settings, which is filled from defaults, the config file, environment and
// flags before any subcommand runs.
func RootCommand(settings *conf.Settings) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "simple-notes",
		Short:         "Simple Notes API server and client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: search ./config.yaml, ~/.config/simple-notes, /etc/simple-notes)")
	rootCmd.PersistentFlags().String("log-level", "", "Default log level (debug, info, warn, error)")
	_ = viper.BindPFlag("logging.default_level", rootCmd.PersistentFlags().Lookup("log-level"))

	configCmd := configcmd.Command()
	versionCmd := versionCommand()

	rootCmd.AddCommand(
		serve.Command(settings),
		notescmd.Command(settings),
		configCmd,
		versionCmd,
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Config and version commands work without a valid configuration
		for c := cmd; c != nil; c = c.Parent() {
			if c == configCmd || c == versionCmd {
				return nil
			}
		}
		return initialize(configFile, settings)
	}

	return rootCmd
}

// initialize loads settings and installs the global logger.
func initialize(configFile string, settings *conf.Settings) error {
	loaded, err := conf.Load(configFile)
	if err != nil {
		return err
	}
	*settings = *loaded

	central, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.SetGlobal(central)

	return nil
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "simple-notes %s\n", conf.Version)
		},
	}
}
