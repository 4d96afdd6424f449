package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// BaseURLStep asks for the endpoint of self-hosted providers and is skipped
// for the hosted ones.
type BaseURLStep struct {
	input  textinput.Model
	envKey string
	ready  bool
}

func NewBaseURLStep() Step {
	return &BaseURLStep{}
}

func (s *BaseURLStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *BaseURLStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.ready {
		key, placeholder := BaseURLEnv(state.Provider())
		if key == "" {
			return nil, nil
		}
		ti := textinput.New()
		ti.Focus()
		ti.Placeholder = placeholder
		ti.Width = 50
		s.input, s.envKey, s.ready = ti, key, true
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimRight(strings.TrimSpace(s.input.Value()), "/")
		if val == "" {
			val = s.input.Placeholder
		}
		state.EnvVars[s.envKey] = val
		return nil, nil
	}
	return s, cmd
}

func (s *BaseURLStep) View(state *InstallState) string {
	if !s.ready {
		return "Loading...\n"
	}
	return "Enter the " + state.Provider() + " endpoint (enter keeps the placeholder):\n\n" +
		s.input.View() + "\n\n(press enter to confirm)\n"
}
