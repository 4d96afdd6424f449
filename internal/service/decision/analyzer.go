// Package decision classifies a player action by emotional tone.
package decision

import (
	"strings"

	"github.com/sandevgo/taleforge/internal/core"
)

type rule struct {
	tone     core.EmotionalTone
	keywords []string
}

// rules are evaluated in order; the first rule with a matching keyword wins.
var rules = []rule{
	{
		tone: core.ToneAggressive,
		keywords: []string{
			"attack", "strike", "hit", "fight", "kill", "threaten", "punch", "stab", "shoot", "slap", "kick",
			"атак", "удар", "бью", "бить", "убить", "убиваю", "угрож", "драк",
		},
	},
	{
		tone: core.ToneFriendly,
		keywords: []string{
			"help", "smile", "thank", "hug", "greet", "comfort", "befriend", "share",
			"помо", "улыб", "спасибо", "благодар", "обнима", "привет",
		},
	},
	{
		tone: core.ToneCautious,
		keywords: []string{
			"careful", "cautious", "hide", "sneak", "wait", "observe", "listen", "retreat", "check",
			"осторож", "прячусь", "спрят", "жду", "подожд", "наблюда", "прислуш",
		},
	},
	{
		tone: core.ToneRomantic,
		keywords: []string{
			"kiss", "love", "caress", "embrace", "flirt", "blush", "tender",
			"целу", "поцел", "люблю", "любов", "ласк", "флирт",
		},
	},
}

// majorChoice marks actions that commit the story to a branch.
var majorChoice = []string{
	"decide", "choose", "agree", "refuse", "betray", "trust", "kill", "save", "love", "hate",
	"swear", "promise", "sacrifice", "abandon", "join", "never",
	"решаю", "выбираю", "соглаш", "отказыва", "предаю", "предать", "доверя", "убить", "убиваю",
	"спасаю", "спасти", "люблю", "ненавиж", "клянусь", "обещаю", "жертв", "никогда",
}

// Analyze derives tone and major-choice status from the action text alone.
// History is accepted for future use and currently ignored.
func Analyze(action string, history []core.HistoryEntry) core.DecisionAnalysis {
	lower := strings.ToLower(action)

	return core.DecisionAnalysis{
		EmotionalTone: toneOf(lower),
		IsMajorChoice: containsAny(lower, majorChoice),
		PlayerWords:   action,
	}
}

func toneOf(lower string) core.EmotionalTone {
	for _, r := range rules {
		if containsAny(lower, r.keywords) {
			return r.tone
		}
	}
	return core.ToneNeutral
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
