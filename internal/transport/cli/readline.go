package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sandevgo/taleforge/internal/config"
	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/pkg/conv"
	"github.com/sandevgo/taleforge/pkg/log"
)

const defaultSessionID = "cli-local"

type ReadLine struct {
	games  core.GameService
	router core.CmdRouter
	rl     *readline.Instance
	out    io.Writer
}

func NewReadLine(games core.GameService, router core.CmdRouter, cfg *config.AppConfig) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "› ",
		HistoryFile:     cfg.GetHistoryFilePath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		games:  games,
		router: router,
		rl:     rl,
		out:    rl.Stdout(),
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	fmt.Fprintf(r.out, "%s. Type /new <setting> to begin, /help for commands, exit to quit.\n", core.AppName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		if err := r.handle(ctx, line); err != nil {
			logger.Error().Err(err).Msg("turn failed")
			fmt.Fprintf(r.out, "Error: %v\n", err)
		}
	}
}

func (r *ReadLine) handle(ctx context.Context, line string) error {
	if reply, ok := r.router.Execute(ctx, defaultSessionID, line); ok {
		fmt.Fprintln(r.out, conv.MarkdownToPlain([]byte(reply)))
		return nil
	}

	res, err := r.games.Play(ctx, defaultSessionID, line)
	if err != nil {
		return err
	}
	fmt.Fprint(r.out, Render(res))
	return nil
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

// Render formats a turn for the terminal.
func Render(res core.TurnResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n── Episode %d", res.Episode)
	if res.Degraded {
		sb.WriteString(" (narrator unavailable)")
	}
	sb.WriteString(" ──\n\n")
	sb.WriteString(conv.MarkdownToPlain([]byte(res.Text)))
	sb.WriteString("\n")

	if len(res.Characters) > 0 {
		names := make([]string, 0, len(res.Characters))
		for _, c := range res.Characters {
			names = append(names, c.Name)
		}
		fmt.Fprintf(&sb, "\n[in scene: %s]\n", strings.Join(names, ", "))
	}
	if res.Status != nil && res.Status.TimeAndPlace != "" {
		fmt.Fprintf(&sb, "[%s]\n", res.Status.TimeAndPlace)
	}
	sb.WriteString("\n")
	return sb.String()
}
