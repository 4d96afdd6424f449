package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath is used before any config is parsed, to find the .env file.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("TALEFORGE_RUNTIME_PATH"))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = ".taleforge"
	}
	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
