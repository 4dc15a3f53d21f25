package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yz4230/hookdeploy/internal/config"
	"github.com/yz4230/hookdeploy/internal/notify"
	"github.com/yz4230/hookdeploy/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Listen for repository webhooks and deploy on qualifying events",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		logger := log.Logger
		if !cfg.HasTelegram() {
			logger.Warn().Msg("telegram is not configured, notifications go to the log")
		}

		srv := server.New(cfg, logger)
		chSignal := make(chan os.Signal, 1)
		signal.Notify(chSignal, os.Interrupt, syscall.SIGTERM)

		n := do.MustInvoke[notify.Notifier](srv.Injector())
		notify.Notifyf(cmd.Context(), n, "🚀 *Webhook server started*\n running on port %d", cfg.Port)

		wg := &sync.WaitGroup{}
		wg.Go(func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("server error")
			}
		})

		sig := <-chSignal
		logger.Info().Str("signal", sig.String()).Msg("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			logger.Error().Err(err).Msg("error during server shutdown")
		}

		wg.Wait()
		logger.Info().Msg("server stopped")
		return nil
	},
}
