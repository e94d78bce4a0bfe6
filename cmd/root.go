// Package cmd wires configuration, logging and the domain packages into the
// f1dashboard commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"f1dashboard/pkg/config"
	"f1dashboard/pkg/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	version = "dev"

	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "f1dashboard",
	Short:         "Formula 1 season dashboard backend",
	Long:          `Caching proxy in front of the OpenF1 API that also computes driver and constructor championship standings.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// Execute runs the command tree.
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is ./.f1dashboard.yaml or $HOME/.f1dashboard.yaml)")
	flags.String("api-base-url", config.DefaultAPIBaseURL, "upstream OpenF1 base URL")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-encoding", "json", "log encoding: json or console")
	flags.String("cache-backend", config.BackendMemory, "response cache: memory or redis")
	flags.String("redis-addr", "localhost:6379", "redis address when cache-backend=redis")
	flags.Duration("live-ttl", config.DefaultLiveTTL, "cache ttl of sessions that may still change")
	flags.Duration("settle-window", config.DefaultSettleWindow, "time after a session ends before its data is cached forever")
	flags.Duration("fetch-timeout", config.DefaultFetchTimeout, "timeout of each per-session fetch")
	flags.Int("workers", config.DefaultWorkers, "concurrent upstream session fetches")
	flags.Int("retries", config.DefaultRetries, "retries of transient upstream failures")
	flags.String("database", config.DefaultDatabase, "sqlite file holding favourites")
	_ = viper.BindPFlags(flags)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".f1dashboard")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("F1DASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())
}

// commandSetup binds the flags local to the running command before the
// shared setup, so commands may declare the same key.
func commandSetup(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.LocalFlags()); err != nil {
		return errors.Wrap(err, "binding flags")
	}
	return sharedSetup(cmd, args)
}

// sharedSetup reads the config file, validates the merged configuration and
// builds the logger.
func sharedSetup(_ *cobra.Command, _ []string) error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrap(err, "error reading config file")
		}
	}

	var err error
	cfg, err = config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err = logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return errors.Wrap(err, "building logger")
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config file loaded", zap.String("path", used))
	}
	return nil
}
