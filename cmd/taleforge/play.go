package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandevgo/taleforge/internal/transport/cli"
	"github.com/sandevgo/taleforge/pkg/log"
	"github.com/sandevgo/taleforge/pkg/srv"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a story in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		p := newPipeline(ctx)
		g := newGames(ctx, p)
		cleanup := append(append([]srv.Service{}, p.cleanup...), g.cleanup...)

		rl, err := cli.NewReadLine(g.service, g.router, p.appCfg)
		if err != nil {
			return err
		}
		cleanup = append(cleanup, rl)

		runErr := rl.Start(ctx)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for i := len(cleanup) - 1; i >= 0; i-- {
			if err := cleanup[i].Shutdown(shutdownCtx); err != nil {
				log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", cleanup[i])
			}
		}

		if errors.Is(runErr, context.Canceled) {
			return nil
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
