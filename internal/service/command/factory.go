package command

import (
	"github.com/sandevgo/taleforge/internal/core"
)

func NewCommands(
	games core.GameService,
	cfg core.ProviderConfig,
	state core.GlobalState,
) []core.Command {
	cmds := []core.Command{
		NewNewGameCommand(games),
		NewRoleCommand(games),
		NewModeCommand(games),
		NewMemoryCommand(games),
		NewResetCommand(games),
	}
	if cfg != nil && state != nil {
		cmds = append(cmds, NewModelCommand(cfg, state))
	}
	return cmds
}
