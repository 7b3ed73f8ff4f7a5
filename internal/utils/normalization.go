package utils

import (
	"fmt"
	"strings"
)

// NormalizeKey lowercases and trims a catalog key such as a topic or difficulty.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// FormatClock renders whole seconds as MM:SS; minutes are not wrapped at 60.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
