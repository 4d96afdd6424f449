package turn

import (
	"fmt"

	"github.com/sandevgo/taleforge/internal/core"
)

const openingFallback = "The story holds its breath. The world around you takes shape slowly, as if the narrator is still searching for the first words. %sLook around and tell what you do first."

var fallbackTemplates = []string{
	"For a moment everything goes still, as though the world itself is weighing your choice. The silence stretches on. What do you do next?",
	"The scene wavers like a reflection on water, then settles again. Nothing has changed yet, but something is about to. How do you act?",
	"A distant sound draws your attention, then fades before you can place it. The moment is yours to shape. What is your next move?",
	"Time seems to slow. Every detail around you sharpens while you gather your thoughts. What do you decide?",
	"The others wait for your lead, watching you closely. The next step is yours. What do you do?",
}

// FallbackText returns a canned reply used when every provider attempt has
// failed. The choice is a pure function of the history length, so replays of
// the same turn read the same.
func FallbackText(settings core.GameSettings, history []core.HistoryEntry) string {
	if len(history) == 0 {
		var place string
		if settings.HasSetting() {
			place = fmt.Sprintf("Somewhere in this world (%s) a story is waiting. ", settings.Setting)
		}
		return fmt.Sprintf(openingFallback, place)
	}
	return fallbackTemplates[len(history)%len(fallbackTemplates)]
}
