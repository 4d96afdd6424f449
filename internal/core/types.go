package core

const (
	AppName          = "Taleforge"
	AppUserAgent     = "Taleforge-Narrator/0.1"
	AppRepositoryURL = "https://github.com/sandevgo/taleforge"
	AppVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry of the sequence sent to a language model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Model describes a model listed by a provider.
type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length"`
}

// HistoryEntry is one prior turn message as stored by the caller.
// Type is "user" or "assistant"; "ai" is accepted as an alias for assistant.
type HistoryEntry struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Role maps the entry type onto a model message role.
func (h HistoryEntry) Role() string {
	if h.Type == RoleUser {
		return RoleUser
	}
	return RoleAssistant
}

func UserEntry(content string) HistoryEntry {
	return HistoryEntry{Type: RoleUser, Content: content}
}

func AssistantEntry(content string) HistoryEntry {
	return HistoryEntry{Type: RoleAssistant, Content: content}
}
