package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/taleforge/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"TALEFORGE_RUNTIME_PATH" envDefault:".taleforge"`

	// Transport Flags
	EnableHTTP     bool   `env:"ENABLE_HTTP" envDefault:"true"`
	EnableTelegram bool   `env:"ENABLE_TELEGRAM" envDefault:"false"`
	HTTPAddr       string `env:"TALEFORGE_HTTP_ADDR" envDefault:":8080"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "taleforge.db")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}

func (c AppConfig) GetHistoryFilePath() string {
	return filepath.Join(c.RuntimePath, "history")
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
