package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Irenepaul17/new-log-sub000/internal/config"
	"github.com/Irenepaul17/new-log-sub000/internal/db"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the configured admin account if it does not exist",
	RunE: withConfig(func(cmd *cobra.Command, cfg *config.Config, log zerolog.Logger) error {
		gdb, err := db.Open(cfg.Database)
		if err != nil {
			return err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		users := repository.NewUserRepo(gdb)
		authSvc := service.NewAuthService(users, service.NewUserService(users, nil), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		created, err := authSvc.SeedAdmin(cmd.Context(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		if err != nil {
			return err
		}
		msg := "admin account already exists"
		if created {
			msg = "admin account created"
		}
		log.Info().Str("email", cfg.Auth.AdminEmail).Bool("created", created).Msg(msg)
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", msg, cfg.Auth.AdminEmail)
		return err
	}),
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
