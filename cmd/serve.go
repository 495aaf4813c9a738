package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Irenepaul17/new-log-sub000/internal/app"
	"github.com/Irenepaul17/new-log-sub000/internal/config"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate, seed the admin account and serve the HTTP API",
	RunE: withConfig(func(cmd *cobra.Command, cfg *config.Config, log zerolog.Logger) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, log, app.Deps{})
		if err != nil {
			return errs.Wrap(err, "start portal")
		}
		defer a.Close()
		if err := a.SeedAdmin(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to seed admin")
		}

		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           a.Handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		serveErr := make(chan error, 1)
		go func() {
			log.Info().Str("addr", cfg.HTTP.Addr).Str("driver", cfg.Database.Driver).Msg("portal server starting")
			serveErr <- srv.ListenAndServe()
		}()

		select {
		case err := <-serveErr:
			if !errors.Is(err, http.ErrServerClosed) {
				return errs.Wrap(err, "serve http")
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(err, "shutdown http")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
