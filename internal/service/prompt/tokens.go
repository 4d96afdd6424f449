package prompt

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/sandevgo/taleforge/internal/core"
)

// perMessageOverhead approximates the role and separator tokens chat APIs add.
const perMessageOverhead = 4

var (
	tkOnce sync.Once
	tk     *tiktoken.Tiktoken
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			tk = enc
		}
	})
	return tk
}

// CountTokens estimates the prompt size. Without the cl100k_base encoding
// (offline first run) it falls back to four runes per token.
func CountTokens(messages []core.Message) int {
	enc := getTokenizer()
	total := 0
	for _, m := range messages {
		total += perMessageOverhead
		if enc != nil {
			total += len(enc.Encode(m.Content, nil, nil))
		} else {
			total += (utf8.RuneCountInString(m.Content) + 3) / 4
		}
	}
	return total
}
