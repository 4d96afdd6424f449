package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandevgo/taleforge/internal/config"
)

// APIKeyStep collects the key for the chosen provider.
type APIKeyStep struct {
	input      textinput.Model
	provider   string
	envKey     string
	isOptional bool
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *APIKeyStep) initProvider(state *InstallState) bool {
	s.provider = state.Provider()
	s.envKey, s.isOptional = APIKeyEnv(s.provider)
	if s.envKey == "" {
		return false
	}

	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 40
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'

	switch s.provider {
	case config.ProviderAnthropic:
		s.input.Placeholder = "sk-ant-..."
	case config.ProviderOpenRouter:
		s.input.Placeholder = "sk-or-v1-..."
	case config.ProviderOllama, config.ProviderCustom:
		s.input.Placeholder = "Optional - press Enter to skip"
		s.input.EchoMode = textinput.EchoNormal
	default:
		s.input.Placeholder = "sk-..."
	}
	return true
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.envKey == "" {
		if !s.initProvider(state) {
			return nil, nil
		}
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if s.input.Value() == "" && !s.isOptional {
			return s, cmd
		}
		state.EnvVars[s.envKey] = s.input.Value()
		return nil, nil
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	if s.envKey == "" {
		return "Loading...\n"
	}

	optionalHint := ""
	if s.isOptional {
		optionalHint = " (optional)"
	}
	return fmt.Sprintf("Enter %s%s:\n\n%s\n\n(press enter to confirm)\n",
		s.envKey, optionalHint, s.input.View())
}
