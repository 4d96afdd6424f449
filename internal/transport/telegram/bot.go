package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/pkg/log"
)

const baseContextKey = "base_context"

type Bot struct {
	bot     *tele.Bot
	games   core.GameService
	router  core.CmdRouter
	sender  *sender
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg core.TelegramConfig,
	games core.GameService,
	router core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.GetTelegramToken(),
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		games:   games,
		router:  router,
		sender:  newSender(b),
		ownerID: cfg.GetTelegramOwnerID(),
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, log.WithComponent(ctx, "telegram"))
			return next(c)
		}
	})

	// Only the owner may play.
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	if err := b.bot.SetCommands(b.commands()); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to register bot commands")
	}
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) commands() []tele.Command {
	var cmds []tele.Command
	for _, c := range b.router.ListCommands() {
		cmds = append(cmds, tele.Command{Text: c.Name(), Description: c.Description()})
	}
	return cmds
}

func sessionID(chatID int64) string {
	return "telegram-" + strconv.FormatInt(chatID, 10)
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	id := sessionID(c.Chat().ID)
	text := strings.TrimSpace(c.Text())

	_ = c.Notify(tele.Typing)

	if reply, ok := b.router.Execute(ctx, id, text); ok {
		return b.sender.sendMarkdown(ctx, c.Chat(), reply)
	}

	res, err := b.games.Play(ctx, id, text)
	if err != nil {
		logger.Error().Err(err).Str("session", id).Msg("turn failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	return b.sender.sendMarkdown(ctx, c.Chat(), formatTurn(res))
}

// formatTurn renders a turn as markdown for the chat.
func formatTurn(res core.TurnResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "_Episode %d_\n\n", res.Episode)
	sb.WriteString(res.Text)

	if len(res.Characters) > 0 {
		names := make([]string, 0, len(res.Characters))
		for _, ch := range res.Characters {
			names = append(names, ch.Name)
		}
		fmt.Fprintf(&sb, "\n\n👥 %s", strings.Join(names, ", "))
	}
	if res.Degraded {
		sb.WriteString("\n\n_The narrator is catching their breath. Try again in a moment._")
	}
	return sb.String()
}
