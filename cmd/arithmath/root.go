package main

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/arithmath/internal/config"
	"github.com/YuminosukeSato/arithmath/pkg/errors"
	"github.com/YuminosukeSato/arithmath/pkg/log"
)

const (
	appName = "arithmath"
	version = "v0.1.0"
)

// app carries what PersistentPreRunE prepared for the subcommands.
type app struct {
	cfg    *config.Experiment
	logger log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Linear classifiers trained from scratch on Gaussian clusters",
		Version: version,
		Long: `arithmath trains small linear classifiers on synthetic Gaussian data.

  perceptron   binary perceptron on two clusters
  logistic     multinomial logistic regression on 2 to 4 clusters

Settings come from --config (YAML), then ARITHMATH_* environment variables,
then command line flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to an experiment YAML file")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Random seed for data generation and shuffling")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (console|json)")

	rootCmd.AddCommand(newPerceptronCmd(a), newLogisticCmd(a))
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := log.ParseLevel(cfg.LogLevel)
	switch cfg.LogFormat {
	case "json":
		logger, err := log.SetupLogger(cmd.ErrOrStderr(), cfg.LogLevel)
		if err != nil {
			return err
		}
		a.logger = logger
		errors.SetWarningHandler(func(w error) {
			logger.Warn(w.Error())
		})
	default:
		zerolog.TimeFieldFormat = time.RFC3339
		log.UseZerolog(zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
			With().Timestamp().Logger())
		log.SetLevel(level)
		log.InstallWarningBridge()
		a.logger = log.GetLoggerWithName(appName)
	}

	a.logger.Debug("Configuration loaded", log.RandomSeedKey, cfg.Seed)
	return nil
}
