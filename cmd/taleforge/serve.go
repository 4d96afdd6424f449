package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandevgo/taleforge/internal/config"
	"github.com/sandevgo/taleforge/internal/transport/httpapi"
	"github.com/sandevgo/taleforge/internal/transport/telegram"
	"github.com/sandevgo/taleforge/pkg/log"
	"github.com/sandevgo/taleforge/pkg/srv"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and the Telegram bot",
	Long:  `Starts the transports enabled by ENABLE_HTTP and ENABLE_TELEGRAM and runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting taleforge")

		services := newServeServices(ctx)
		srv.StartServices(ctx, services)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.ShutdownServices(ctx, shutdownCtx, services)
		logger.Info().Msg("taleforge has been shut down gracefully")

		return nil
	},
}

func newServeServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	p := newPipeline(ctx)
	services := append([]srv.Service{}, p.cleanup...)

	if p.appCfg.EnableHTTP {
		services = append(services, httpapi.NewServer(ctx, p.appCfg.HTTPAddr, p.turns))
	}

	if p.appCfg.IsTelegramSelected() {
		g := newGames(ctx, p)
		services = append(services, g.cleanup...)

		bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), g.service, g.router)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		services = append(services, bot)
	}

	if !p.appCfg.EnableHTTP && !p.appCfg.IsTelegramSelected() {
		logger.Warn().Msg("no transport enabled; set ENABLE_HTTP or ENABLE_TELEGRAM, or use `taleforge play`")
	}
	return services
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
