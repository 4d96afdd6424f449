package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"github.com/sandevgo/taleforge/internal/core"
)

// ComputeKey fingerprints the exact message sequence. Any change in role,
// content, order or whitespace yields a different key.
func ComputeKey(messages []core.Message) string {
	data, err := json.Marshal(messages)
	if err != nil {
		// []core.Message only holds strings; Marshal cannot fail.
		panic(err)
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
