package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sandevgo/taleforge/internal/config"
	"github.com/sandevgo/taleforge/internal/service/installer"
	"github.com/sandevgo/taleforge/pkg/log"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Configure the narrator interactively",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		if _, err := installer.RunWizard(); err != nil {
			return err
		}

		appCfg := config.AppConfig{RuntimePath: config.GetRuntimePath()}
		if err := godotenv.Load(appCfg.GetEnvPath()); err != nil {
			logger.Warn().Err(err).Str("path", appCfg.GetEnvPath()).Msg("failed to load .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", appCfg.GetRuntimePath())
		logger.Info().Msg("Installation complete! Run 'taleforge play' or 'taleforge serve'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
