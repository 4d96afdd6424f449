package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandevgo/taleforge/internal/transport/mcp"
	"github.com/sandevgo/taleforge/pkg/log"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the narrator as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupStderrLogger(cmd.Context(), os.Stderr)
		defer flushLog()

		p := newPipeline(ctx)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for i := len(p.cleanup) - 1; i >= 0; i-- {
				if err := p.cleanup[i].Shutdown(shutdownCtx); err != nil {
					log.FromCtx(ctx).Error().Err(err).Msg("shutdown failed")
				}
			}
		}()

		server, err := mcp.New(p.turns)
		if err != nil {
			return err
		}
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
