package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/taleforge/internal/core"
)

type ModelCommand struct {
	cfg       core.ProviderConfig
	state     core.GlobalState
	formatter *ResponseFormatter
}

func NewModelCommand(
	cfg core.ProviderConfig,
	state core.GlobalState,
) *ModelCommand {
	return &ModelCommand{
		cfg:       cfg,
		state:     state,
		formatter: NewResponseFormatter(),
	}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "Show or change the narrator model"
}

func (c *ModelCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Narrator Model"),
			c.formatter.Label("Provider", c.cfg.GetProvider()),
			c.formatter.Label("Model", c.cfg.GetModel()),
			c.formatter.Label("Fallbacks", fallbacks(c.cfg.GetFallbackProviders())),
			c.formatter.Usage("/model [provider/]model"),
			c.formatter.Examples([]string{
				"/model deepseek/deepseek-chat",
				"/model anthropic/claude-3-5-sonnet-latest",
				"/model gpt-4o-mini",
			}),
		), nil
	}

	if err := c.state.ChangeModel(ctx, args[0]); err != nil {
		return "", fmt.Errorf("failed to set model: %w", err)
	}

	return c.formatter.Success(fmt.Sprintf("Narrator is now %s/%s", c.cfg.GetProvider(), c.cfg.GetModel())), nil
}

func fallbacks(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
