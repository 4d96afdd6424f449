package core

// TurnRequest is the inbound record for one player turn.
type TurnRequest struct {
	Action   string          `json:"action"`
	Settings GameSettings    `json:"settings"`
	History  []HistoryEntry  `json:"history"`
	Memory   NarrativeMemory `json:"memory"`
}

// StatusBlock is the parsed scene status header a narrator may prepend.
type StatusBlock struct {
	TimeAndPlace  string   `json:"timeAndPlace,omitempty"`
	Events        []string `json:"events,omitempty"`
	Relationships []string `json:"relationships,omitempty"`
	Emotions      []string `json:"emotions,omitempty"`
	Clues         []string `json:"clues,omitempty"`
	Questions     []string `json:"questions,omitempty"`
	Plans         []string `json:"plans,omitempty"`
}

// TurnResult is the outcome of one turn.
type TurnResult struct {
	Text       string            `json:"text"`
	Characters []CharacterRecord `json:"characters"`
	Episode    int               `json:"episode"`

	Decision *DecisionAnalysis `json:"decisionAnalysis,omitempty"`
	Memory   *NarrativeMemory  `json:"memory,omitempty"`
	Status   *StatusBlock      `json:"status,omitempty"`

	Degraded bool   `json:"degraded,omitempty"`
	Cached   bool   `json:"cached,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// EpisodeNumber derives the episode counter from the history length.
func EpisodeNumber(historyLen int) int {
	return historyLen/2 + 1
}
