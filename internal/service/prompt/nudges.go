package prompt

import (
	"fmt"
	"sort"

	"github.com/sandevgo/taleforge/internal/core"
)

// Nudges returns the periodic narrator notes for a turn: every 3rd turn an
// observer note, every 5th a passage-of-time note, every 7th a note handing
// initiative to a known character.
func Nudges(turn int, m core.NarrativeMemory) []string {
	var out []string
	if turn <= 0 {
		return nil
	}
	if turn%3 == 0 {
		out = append(out, nudgeTexts.observer)
	}
	if turn%5 == 0 {
		out = append(out, nudgeTexts.time)
	}
	if turn%7 == 0 {
		if name := firstCharacter(m); name != "" {
			out = append(out, fmt.Sprintf(nudgeTexts.character, name))
		}
	}
	return out
}

func firstCharacter(m core.NarrativeMemory) string {
	if len(m.CharacterRelationships) == 0 {
		return ""
	}
	names := make([]string, 0, len(m.CharacterRelationships))
	for name := range m.CharacterRelationships {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0]
}
