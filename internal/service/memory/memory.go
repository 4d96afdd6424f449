// Package memory maintains the compact narrative memory carried between turns.
package memory

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/taleforge/internal/core"
)

const (
	// RecentMoments is how many key moments reach the prompt.
	RecentMoments = 3
	// MaxStoredMoments bounds the moments kept in a session.
	MaxStoredMoments = 20
	// MaxWorldChanges bounds the world changes kept in a session.
	MaxWorldChanges = 10

	maxConsequenceRunes = 200
)

type Tier string

const (
	TierHostile  Tier = "hostile"
	TierTense    Tier = "tense"
	TierNeutral  Tier = "neutral"
	TierFriendly Tier = "friendly"
	TierRomantic Tier = "romantic"
)

// TierOf maps a relationship score onto a named tier.
func TierOf(score int) Tier {
	switch {
	case score < -50:
		return TierHostile
	case score < 0:
		return TierTense
	case score < 50:
		return TierNeutral
	case score < 80:
		return TierFriendly
	default:
		return TierRomantic
	}
}

var toneDelta = map[core.EmotionalTone]int{
	core.ToneFriendly:   5,
	core.ToneRomantic:   10,
	core.ToneAggressive: -10,
	core.ToneCautious:   -2,
	core.ToneNeutral:    0,
}

var toneWeight = map[core.EmotionalTone]int{
	core.ToneAggressive: 8,
	core.ToneRomantic:   7,
	core.ToneFriendly:   5,
	core.ToneCautious:   4,
	core.ToneNeutral:    3,
}

// Recent returns up to n most recent key moments, oldest first.
func Recent(m core.NarrativeMemory, n int) []core.KeyMoment {
	if n <= 0 || len(m.KeyMoments) == 0 {
		return nil
	}
	if len(m.KeyMoments) <= n {
		return m.KeyMoments
	}
	return m.KeyMoments[len(m.KeyMoments)-n:]
}

// TurnFacts is what a finished turn contributes to memory.
type TurnFacts struct {
	Turn       int
	Analysis   core.DecisionAnalysis
	Reply      string
	Characters []core.CharacterRecord
	Status     *core.StatusBlock
}

// Apply returns an updated copy of m. The input is never modified.
func Apply(m core.NarrativeMemory, f TurnFacts) core.NarrativeMemory {
	out := m.Clone()

	if f.Analysis.IsMajorChoice {
		out.KeyMoments = append(out.KeyMoments, core.KeyMoment{
			Turn:            f.Turn,
			PlayerAction:    f.Analysis.PlayerWords,
			Consequence:     firstSentence(f.Reply),
			EmotionalWeight: toneWeight[f.Analysis.EmotionalTone],
		})
		if len(out.KeyMoments) > MaxStoredMoments {
			out.KeyMoments = out.KeyMoments[len(out.KeyMoments)-MaxStoredMoments:]
		}
	}

	delta := toneDelta[f.Analysis.EmotionalTone]
	touched := make(map[string]struct{})
	for _, c := range f.Characters {
		touched[c.Name] = struct{}{}
	}
	for name := range out.CharacterRelationships {
		if strings.Contains(f.Reply, name) {
			touched[name] = struct{}{}
		}
	}
	for name := range touched {
		out.CharacterRelationships[name] = clamp(out.CharacterRelationships[name] + delta)
	}

	if f.Status != nil && len(f.Status.Events) > 0 {
		out.WorldChanges = append(out.WorldChanges, f.Status.Events...)
		if len(out.WorldChanges) > MaxWorldChanges {
			out.WorldChanges = out.WorldChanges[len(out.WorldChanges)-MaxWorldChanges:]
		}
	}

	return out
}

func clamp(v int) int {
	return max(core.MinRelationship, min(core.MaxRelationship, v))
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, ".!?…\n"); i >= 0 {
		_, size := utf8.DecodeRuneInString(text[i:])
		text = text[:i+size]
	}
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > maxConsequenceRunes {
		text = string([]rune(text)[:maxConsequenceRunes]) + "…"
	}
	return text
}

// Format renders the memory block given to the narrator. It returns an empty
// string when there is nothing worth mentioning.
func Format(m core.NarrativeMemory) string {
	var sb strings.Builder

	if moments := Recent(m, RecentMoments); len(moments) > 0 {
		sb.WriteString("Key moments so far:\n")
		for _, km := range moments {
			fmt.Fprintf(&sb, "- Turn %d: the player chose %q. Consequence: %s\n", km.Turn, km.PlayerAction, km.Consequence)
		}
	}

	if len(m.CharacterRelationships) > 0 {
		names := make([]string, 0, len(m.CharacterRelationships))
		for name := range m.CharacterRelationships {
			names = append(names, name)
		}
		sort.Strings(names)

		sb.WriteString("Relationships with the player:\n")
		for _, name := range names {
			score := m.CharacterRelationships[name]
			fmt.Fprintf(&sb, "- %s: %s (%d)\n", name, TierOf(score), score)
		}
	}

	if len(m.WorldChanges) > 0 {
		sb.WriteString("World changes:\n")
		for _, w := range m.WorldChanges {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
