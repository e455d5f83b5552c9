package util

import (
	"os"
	"strings"
)

// FirstEnv returns the first non-blank value among the given environment
// variables, or an empty string.
func FirstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}
