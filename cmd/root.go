package cmd

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Irenepaul17/new-log-sub000/internal/config"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "portal",
	Short:         "Signal & telecom maintenance reporting portal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. It is called once by main.main().
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./portal.yaml or ./configs/portal.yaml)")
}

// withConfig loads configuration and the process logger before running fn.
func withConfig(fn func(cmd *cobra.Command, cfg *config.Config, log zerolog.Logger) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return errs.Wrap(err, "load config")
		}
		log, closer := logging.New(cfg.Log)
		defer closer.Close()
		log = log.With().Str("command", cmd.Name()).Logger()

		if err := fn(cmd, cfg, log); err != nil {
			log.Error().Err(err).Msg("command failed")
			return err
		}
		return nil
	}
}
