package installer

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TelegramStep collects one Telegram setting. It is skipped unless the
// Telegram channel was chosen.
type TelegramStep struct {
	input   textinput.Model
	envKey  string
	prompt  string
	numeric bool
	ready   bool
}

func NewTelegramTokenStep() Step {
	ti := textinput.New()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "123456789:ABCDEF..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'

	return &TelegramStep{input: ti, envKey: envTelegramToken, prompt: "Enter your Telegram Bot Token:"}
}

func NewTelegramOwnerStep() Step {
	ti := textinput.New()
	ti.CharLimit = 32
	ti.Width = 40
	ti.Placeholder = "123456789"

	return &TelegramStep{input: ti, envKey: envTelegramOwner, prompt: "Enter your Telegram User ID (Owner):", numeric: true}
}

func (s *TelegramStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *TelegramStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.ready {
		if state.Channel != channelTelegram {
			return nil, nil
		}
		s.ready = true
		s.input.Focus()
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" {
			return s, cmd
		}
		if s.numeric {
			if _, err := strconv.ParseInt(val, 10, 64); err != nil {
				return s, cmd
			}
		}
		state.EnvVars[s.envKey] = val
		return nil, nil
	}
	return s, cmd
}

func (s *TelegramStep) View(state *InstallState) string {
	return s.prompt + "\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}
