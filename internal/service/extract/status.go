package extract

import (
	"regexp"
	"strings"

	"github.com/sandevgo/taleforge/internal/core"
)

// statusBlock matches the header the narrator is asked to open each reply
// with, terminated by a line of three dashes.
var statusBlock = regexp.MustCompile(`(?s)\*\*\[(?:STATUS|META|МЕТА)\]\*\*(.*?)---\s*`)

var statusFields = []struct {
	marker string
	apply  func(s *core.StatusBlock, v string)
}{
	{"⏰", func(s *core.StatusBlock, v string) { s.TimeAndPlace = v }},
	{"🎬", func(s *core.StatusBlock, v string) { s.Events = splitItems(v) }},
	{"💕", func(s *core.StatusBlock, v string) { s.Relationships = splitItems(v) }},
	{"🧠", func(s *core.StatusBlock, v string) { s.Emotions = splitItems(v) }},
	{"🔍", func(s *core.StatusBlock, v string) { s.Clues = splitItems(v) }},
	{"❓", func(s *core.StatusBlock, v string) { s.Questions = splitItems(v) }},
	{"🎯", func(s *core.StatusBlock, v string) { s.Plans = splitItems(v) }},
}

// StatusBlock splits a reply into its status header and the story text.
// ok is false when the reply has no header; story is then text unchanged.
func StatusBlock(text string) (block core.StatusBlock, story string, ok bool) {
	loc := statusBlock.FindStringSubmatchIndex(text)
	if loc == nil {
		return core.StatusBlock{}, text, false
	}

	body := text[loc[2]:loc[3]]
	story = strings.TrimSpace(text[:loc[0]] + text[loc[1]:])

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		for _, f := range statusFields {
			if !strings.HasPrefix(line, f.marker) {
				continue
			}
			if _, value, found := strings.Cut(line, ":"); found {
				if v := strings.TrimSpace(value); v != "" {
					f.apply(&block, v)
				}
			}
			break
		}
	}
	return block, story, true
}

func splitItems(v string) []string {
	parts := strings.Split(v, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
