// Package prompt assembles the message sequence sent to the narrator model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/internal/service/memory"
)

const DefaultHistoryLimit = 10

// settingRepeats is how many times the opening turn restates the setting.
const settingRepeats = 3

type Config struct {
	HistoryLimit int
	Nudges       bool
	// Persona overrides DefaultPersona when non-empty.
	Persona string
}

// Input is everything a prompt is built from.
type Input struct {
	Settings  core.GameSettings
	Memory    core.NarrativeMemory
	History   []core.HistoryEntry
	Action    string
	Analysis  core.DecisionAnalysis
	FirstTurn bool
}

// Builder is stateless and safe for concurrent use.
type Builder struct {
	cfg Config
}

func NewBuilder(cfg Config) *Builder {
	if cfg.HistoryLimit < 0 {
		cfg.HistoryLimit = 0
	}
	if strings.TrimSpace(cfg.Persona) == "" {
		cfg.Persona = DefaultPersona
	}
	return &Builder{cfg: cfg}
}

// Build returns one system message, the most recent history and exactly one
// trailing user message.
func (b *Builder) Build(in Input) []core.Message {
	settings := in.Settings.WithDefaults()
	history := lastEntries(in.History, b.cfg.HistoryLimit)

	messages := make([]core.Message, 0, len(history)+2)
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: b.system(settings)})

	for _, h := range history {
		messages = append(messages, core.Message{Role: h.Role(), Content: h.Content})
	}

	var user string
	if in.FirstTurn {
		user = openingAction(settings, in.Action)
	} else {
		user = b.laterAction(settings, in)
	}
	return append(messages, core.Message{Role: core.RoleUser, Content: user})
}

func (b *Builder) system(s core.GameSettings) string {
	var sb strings.Builder

	sb.WriteString(b.cfg.Persona)
	fmt.Fprintf(&sb, "\n\nStory: %s", s.Name)
	if s.Genre != "" {
		fmt.Fprintf(&sb, "\nGenre: %s", s.Genre)
	}
	if s.HasSetting() {
		fmt.Fprintf(&sb, "\n\nSetting:\n%s", s.Setting)
	}

	sb.WriteString("\n\n")
	sb.WriteString(roleInstructions[s.Role])
	sb.WriteString("\n\n")
	sb.WriteString(modeInstructions[s.NarrativeMode])

	if line, ok := eloquence[s.EloquenceLevel]; ok {
		sb.WriteString("\n")
		sb.WriteString(line)
	}

	if len(s.InitialCharacters) > 0 {
		sb.WriteString("\n\nCharacters already present:")
		for _, c := range s.InitialCharacters {
			fmt.Fprintf(&sb, "\n- %s", c.Name)
			if c.Role != "" {
				fmt.Fprintf(&sb, " (%s)", c.Role)
			}
			if c.Description != "" {
				fmt.Fprintf(&sb, ": %s", c.Description)
			}
		}
	}

	if s.Instructions != "" {
		fmt.Fprintf(&sb, "\n\nAuthor instructions:\n%s", strings.TrimSpace(s.Instructions))
	}

	sb.WriteString("\n\n")
	sb.WriteString(styleRules)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, contentPolicy, s.Rating)

	return sb.String()
}

func openingAction(s core.GameSettings, action string) string {
	var sb strings.Builder

	sb.WriteString(firstTurnDirectives)
	if s.HasSetting() {
		for i := 0; i < settingRepeats; i++ {
			fmt.Fprintf(&sb, "\n\nSetting (follow exactly): %s", s.Setting)
		}
	}
	fmt.Fprintf(&sb, "\n\nPlayer's first action: %s", actionOrDefault(action))
	return sb.String()
}

func (b *Builder) laterAction(s core.GameSettings, in Input) string {
	var parts []string

	if block := memory.Format(in.Memory); block != "" {
		parts = append(parts, block)
	}

	action := actionOrDefault(in.Action)
	if len(in.History)%2 == 0 && s.HasSetting() {
		action = fmt.Sprintf(settingReminder, s.Setting) + "\n" + action
	}
	parts = append(parts, action)

	if in.Analysis.IsMajorChoice {
		parts = append(parts, majorChoiceDirective)
	}

	if b.cfg.Nudges {
		parts = append(parts, Nudges(core.EpisodeNumber(len(in.History)), in.Memory)...)
	}

	return strings.Join(parts, "\n\n")
}

func actionOrDefault(action string) string {
	if a := strings.TrimSpace(action); a != "" {
		return a
	}
	return "(the player waits)"
}

func lastEntries(history []core.HistoryEntry, limit int) []core.HistoryEntry {
	if len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}
