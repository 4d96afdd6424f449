package config

import "os"

func IsDebug() bool {
	return os.Getenv("TALEFORGE_DEBUG") == "1"
}
