package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandevgo/taleforge/internal/config"
	"github.com/sandevgo/taleforge/pkg/env"
	"github.com/sandevgo/taleforge/pkg/log"
)

var showSecrets bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as .env lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("failed to load .env file")
		}

		providerCfg, err := config.LoadProviderConfig()
		if err != nil {
			return err
		}
		cacheCfg, err := config.LoadCacheConfig()
		if err != nil {
			return err
		}

		sections := []any{
			config.NewAppConfig(ctx),
			providerCfg,
			config.NewPipelineConfig(ctx),
			cacheCfg,
		}
		for _, s := range sections {
			out, err := env.MarshalEnv(s, env.Options{Redact: !showSecrets, IncludeZero: true})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "print API keys and tokens in clear text")
	rootCmd.AddCommand(configCmd)
}
