package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Irenepaul17/new-log-sub000/internal/config"
	"github.com/Irenepaul17/new-log-sub000/internal/db"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: withConfig(func(cmd *cobra.Command, cfg *config.Config, log zerolog.Logger) error {
		gdb, err := db.Open(cfg.Database)
		if err != nil {
			return err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := db.Migrate(gdb); err != nil {
			return errs.Wrap(err, "migrate")
		}
		log.Info().Str("driver", cfg.Database.Driver).Msg("schema migrated")
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "database schema migrated: %s\n", cfg.Database.Driver)
		return err
	}),
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
