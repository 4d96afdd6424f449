package core

const (
	MinRelationship = -100
	MaxRelationship = 100
)

// KeyMoment is a pivotal player decision remembered across turns.
type KeyMoment struct {
	Turn            int    `json:"turn"`
	PlayerAction    string `json:"playerAction"`
	Consequence     string `json:"consequence"`
	EmotionalWeight int    `json:"emotionalWeight"`
}

// NarrativeMemory is the compact story state carried between turns.
// It is passed by value into the pipeline and returned as an updated copy.
type NarrativeMemory struct {
	KeyMoments             []KeyMoment    `json:"keyMoments"`
	CharacterRelationships map[string]int `json:"characterRelationships"`
	WorldChanges           []string       `json:"worldChanges"`
}

// Clone returns a deep copy.
func (m NarrativeMemory) Clone() NarrativeMemory {
	out := NarrativeMemory{
		KeyMoments:             append([]KeyMoment(nil), m.KeyMoments...),
		WorldChanges:           append([]string(nil), m.WorldChanges...),
		CharacterRelationships: make(map[string]int, len(m.CharacterRelationships)),
	}
	for k, v := range m.CharacterRelationships {
		out.CharacterRelationships[k] = v
	}
	return out
}

func (m NarrativeMemory) IsEmpty() bool {
	return len(m.KeyMoments) == 0 && len(m.CharacterRelationships) == 0 && len(m.WorldChanges) == 0
}

type EmotionalTone string

const (
	ToneNeutral    EmotionalTone = "neutral"
	ToneAggressive EmotionalTone = "aggressive"
	ToneFriendly   EmotionalTone = "friendly"
	ToneCautious   EmotionalTone = "cautious"
	ToneRomantic   EmotionalTone = "romantic"
)

// DecisionAnalysis classifies a player action.
type DecisionAnalysis struct {
	EmotionalTone EmotionalTone `json:"emotionalTone"`
	IsMajorChoice bool          `json:"isMajorChoice"`
	PlayerWords   string        `json:"playerWords"`
}
