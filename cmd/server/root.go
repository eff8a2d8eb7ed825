package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"jobmatch/internal/app"
	"jobmatch/internal/config"
	"jobmatch/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const appName = "jobmatch"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   appName,
		Short: "jobmatch scores and ranks candidates against job postings and runs the match lifecycle",
		// serving is the default when no subcommand is given
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional config file (env, yaml or json)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	rootCmd.AddCommand(serveCmd, migrateCmd, rescoreCmd, seedCmd)
}

func initConfig() {
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: read config %s: %v\n", cfgFile, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, builds the logger and opens the container. The returned
// context is cancelled on SIGINT or SIGTERM.
func bootstrap(cmd *cobra.Command) (context.Context, *app.Container, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)

	c, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		stop()
		_ = log.Sync()
		return nil, nil, nil, err
	}

	cleanup := func() {
		if err := c.Close(); err != nil {
			log.Warn("cleanup failed", zap.Error(err))
		}
		stop()
		_ = log.Sync()
	}
	return ctx, c, cleanup, nil
}
