package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/internal/service/memory"
)

// NewGameCommand starts a fresh game and plays its opening turn.
type NewGameCommand struct {
	games     core.GameService
	formatter *ResponseFormatter
}

func NewNewGameCommand(games core.GameService) *NewGameCommand {
	return &NewGameCommand{games: games, formatter: NewResponseFormatter()}
}

func (c *NewGameCommand) Name() string { return "new" }

func (c *NewGameCommand) Description() string { return "Start a new story in the given setting" }

func (c *NewGameCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	setting := strings.TrimSpace(strings.Join(args, " "))
	if setting == "" {
		return c.formatter.Combine(
			c.formatter.Info("New Story"),
			c.formatter.Usage("/new <setting>"),
			c.formatter.Examples([]string{
				"/new a rain-soaked cyberpunk megacity",
				"/new a village at the edge of a haunted forest",
			}),
		), nil
	}

	if _, err := c.games.Start(ctx, sessionID, core.GameSettings{Setting: setting}); err != nil {
		return "", err
	}

	res, err := c.games.Play(ctx, sessionID, "")
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

type RoleCommand struct {
	games     core.GameService
	formatter *ResponseFormatter
}

func NewRoleCommand(games core.GameService) *RoleCommand {
	return &RoleCommand{games: games, formatter: NewResponseFormatter()}
}

func (c *RoleCommand) Name() string { return "role" }

func (c *RoleCommand) Description() string { return "Play as the hero or as the author" }

func (c *RoleCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Player Role"),
			c.formatter.Usage("/role hero|author"),
		), nil
	}

	role := core.PlayerRole(strings.ToLower(args[0]))
	if role != core.PlayerHero && role != core.PlayerAuthor {
		return "", fmt.Errorf("unknown role %q, expected hero or author", args[0])
	}

	settings, err := c.games.Update(ctx, sessionID, func(s *core.GameSettings) { s.Role = role })
	if err != nil {
		return "", err
	}
	return c.formatter.Success(fmt.Sprintf("Role set to %s", settings.Role)), nil
}

type ModeCommand struct {
	games     core.GameService
	formatter *ResponseFormatter
}

func NewModeCommand(games core.GameService) *ModeCommand {
	return &ModeCommand{games: games, formatter: NewResponseFormatter()}
}

func (c *ModeCommand) Name() string { return "mode" }

func (c *ModeCommand) Description() string { return "Change the narrative perspective" }

func (c *ModeCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Narrative Mode"),
			c.formatter.Usage("/mode first|third|love_interest"),
		), nil
	}

	mode := core.ParseNarrativeMode(args[0])
	if !strings.EqualFold(strings.ReplaceAll(args[0], "-", "_"), string(mode)) {
		return "", fmt.Errorf("unknown mode %q, expected first, third or love_interest", args[0])
	}

	settings, err := c.games.Update(ctx, sessionID, func(s *core.GameSettings) { s.NarrativeMode = mode })
	if err != nil {
		return "", err
	}
	return c.formatter.Success(fmt.Sprintf("Narrative mode set to %s", settings.NarrativeMode)), nil
}

type MemoryCommand struct {
	games     core.GameService
	formatter *ResponseFormatter
}

func NewMemoryCommand(games core.GameService) *MemoryCommand {
	return &MemoryCommand{games: games, formatter: NewResponseFormatter()}
}

func (c *MemoryCommand) Name() string { return "memory" }

func (c *MemoryCommand) Description() string { return "Show key moments and relationships" }

func (c *MemoryCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	mem, err := c.games.Memory(ctx, sessionID)
	if errors.Is(err, core.ErrSessionNotFound) || (err == nil && mem.IsEmpty()) {
		return c.formatter.Combine(
			c.formatter.Info("Story Memory"),
			"Nothing memorable has happened yet.\n",
		), nil
	}
	if err != nil {
		return "", err
	}

	var moments []string
	for _, km := range memory.Recent(mem, memory.RecentMoments) {
		moments = append(moments, fmt.Sprintf("Turn %d: %s → %s", km.Turn, km.PlayerAction, km.Consequence))
	}

	names := make([]string, 0, len(mem.CharacterRelationships))
	for name := range mem.CharacterRelationships {
		names = append(names, name)
	}
	sort.Strings(names)

	var relations strings.Builder
	for _, name := range names {
		score := mem.CharacterRelationships[name]
		relations.WriteString(c.formatter.Score(name, string(memory.TierOf(score)), score))
	}

	var world string
	if len(mem.WorldChanges) > 0 {
		world = c.formatter.List(mem.WorldChanges)
	}
	var momentList string
	if len(moments) > 0 {
		momentList = c.formatter.List(moments)
	}

	return c.formatter.Combine(
		c.formatter.Info("Story Memory"),
		c.formatter.Section("⭐", "Key moments", momentList),
		c.formatter.Section("💕", "Relationships", relations.String()),
		c.formatter.Section("🌍", "World changes", world),
	), nil
}

type ResetCommand struct {
	games     core.GameService
	formatter *ResponseFormatter
}

func NewResetCommand(games core.GameService) *ResetCommand {
	return &ResetCommand{games: games, formatter: NewResponseFormatter()}
}

func (c *ResetCommand) Name() string { return "reset" }

func (c *ResetCommand) Description() string { return "Forget the current story" }

func (c *ResetCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if err := c.games.Reset(ctx, sessionID); err != nil {
		return "", err
	}
	return c.formatter.Combine(
		c.formatter.Success("Story reset"),
		"Start again with /new <setting>.\n",
	), nil
}

type helpCommand struct {
	router    *Router
	formatter *ResponseFormatter
}

func newHelpCommand(router *Router) *helpCommand {
	return &helpCommand{router: router, formatter: NewResponseFormatter()}
}

func (c *helpCommand) Name() string { return "help" }

func (c *helpCommand) Description() string { return "List commands" }

func (c *helpCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	var items []string
	for _, cmd := range c.router.ListCommands() {
		items = append(items, fmt.Sprintf("/%s: %s", cmd.Name(), cmd.Description()))
	}
	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
		"Anything else you type is your next action in the story.\n",
	), nil
}
