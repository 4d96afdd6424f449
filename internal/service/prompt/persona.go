package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// LoadPersona reads a narrator persona override. A missing file is not an
// error and yields an empty persona.
func LoadPersona(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read persona: %w", err)
	}
	return strings.TrimSpace(string(content)), nil
}
