// Package extract pulls structured data out of narrator replies.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sandevgo/taleforge/internal/core"
)

// DefaultNPCRole is assigned to characters found without an explicit tag.
const DefaultNPCRole = "NPC"

var (
	// [NPC: name | Role: role | Appearance: description]
	npcTag = regexp.MustCompile(`\[NPC:\s*([^|\]]+?)\s*\|\s*Role:\s*([^|\]]+?)\s*\|\s*Appearance:\s*([^\]]*?)\s*\]`)

	// One or two capitalized words directly followed by a speech or reaction
	// verb. The verb must end a word; see endsWord.
	speaker = regexp.MustCompile(
		`(?:^|[^\p{L}])(\p{Lu}\p{Ll}+(?:\s\p{Lu}\p{Ll}+)?)\s+` +
			`(?:said|asked|nodded|replied|whispered|shouted|smiled|laughed|answered|exclaimed|muttered|sighed|` +
			`сказала?|спросила?|кивнула?|ответила?|прошептала?|крикнула?|улыбнул(?:ся|ась)|засмеял(?:ся|ась))`)
)

// endsWord reports whether no letter follows position i in text. The
// separator after the verb must stay unconsumed: it is the leading boundary
// of the next speaker.
func endsWord(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !unicode.IsLetter(r)
}

// Characters returns the NPCs mentioned in text. Explicit tags come first in
// text order, then speakers found by the verb heuristic. Names are unique by
// exact, case-sensitive match. Heuristic names must be longer than two runes.
func Characters(text string) []core.CharacterRecord {
	out := []core.CharacterRecord{}
	seen := make(map[string]struct{})

	for _, m := range npcTag.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, core.CharacterRecord{
			Name:        name,
			Role:        strings.TrimSpace(m[2]),
			Description: strings.TrimSpace(m[3]),
		})
	}

	for _, loc := range speaker.FindAllStringSubmatchIndex(text, -1) {
		if !endsWord(text, loc[1]) {
			continue
		}
		name := strings.TrimSpace(text[loc[2]:loc[3]])
		if utf8.RuneCountInString(name) <= 2 {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, core.CharacterRecord{Name: name, Role: DefaultNPCRole})
	}

	return out
}

// Merge appends records from next whose names are not yet in known.
func Merge(known, next []core.CharacterRecord) []core.CharacterRecord {
	out := append([]core.CharacterRecord(nil), known...)
	seen := make(map[string]struct{}, len(known))
	for _, c := range known {
		seen[c.Name] = struct{}{}
	}
	for _, c := range next {
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		out = append(out, c)
	}
	return out
}
