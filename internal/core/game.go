package core

import "strings"

type PlayerRole string

const (
	PlayerHero   PlayerRole = "hero"
	PlayerAuthor PlayerRole = "author"
)

type NarrativeMode string

const (
	ModeFirstPerson  NarrativeMode = "first"
	ModeThirdPerson  NarrativeMode = "third"
	ModeLoveInterest NarrativeMode = "love_interest"
)

const (
	DefaultRating   = "18+"
	DefaultGameName = "Untitled"
)

// ParsePlayerRole returns the role for s, falling back to hero.
func ParsePlayerRole(s string) PlayerRole {
	if PlayerRole(strings.ToLower(strings.TrimSpace(s))) == PlayerAuthor {
		return PlayerAuthor
	}
	return PlayerHero
}

// ParseNarrativeMode returns the mode for s, falling back to third person.
func ParseNarrativeMode(s string) NarrativeMode {
	v := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch NarrativeMode(v) {
	case ModeFirstPerson, ModeLoveInterest:
		return NarrativeMode(v)
	default:
		return ModeThirdPerson
	}
}

// GameSettings is the per-game configuration chosen by the player.
type GameSettings struct {
	Role          PlayerRole    `json:"role"`
	NarrativeMode NarrativeMode `json:"narrativeMode"`
	Setting       string        `json:"setting"`
	Name          string        `json:"name"`
	Rating        string        `json:"rating"`

	Genre             string            `json:"genre,omitempty"`
	EloquenceLevel    int               `json:"eloquenceLevel,omitempty"`
	Instructions      string            `json:"aiInstructions,omitempty"`
	InitialCharacters []CharacterRecord `json:"initialCharacters,omitempty"`
}

// WithDefaults returns a copy with empty or unknown fields replaced by defaults.
// The setting text is kept verbatim.
func (s GameSettings) WithDefaults() GameSettings {
	s.Role = ParsePlayerRole(string(s.Role))
	s.NarrativeMode = ParseNarrativeMode(string(s.NarrativeMode))
	if strings.TrimSpace(s.Name) == "" {
		s.Name = DefaultGameName
	}
	if strings.TrimSpace(s.Rating) == "" {
		s.Rating = DefaultRating
	}
	if s.EloquenceLevel < 0 {
		s.EloquenceLevel = 0
	}
	if s.EloquenceLevel > 5 {
		s.EloquenceLevel = 5
	}
	return s
}

// HasSetting reports whether the setting holds anything besides whitespace.
func (s GameSettings) HasSetting() bool {
	return strings.TrimSpace(s.Setting) != ""
}

// CharacterRecord is a non-player character seen in the story.
type CharacterRecord struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
}
