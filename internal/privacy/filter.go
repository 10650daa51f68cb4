// Package privacy strips caller-marked private spans from record content
// before it is persisted or rendered into a context window.
package privacy

import (
	"regexp"
	"strings"
)

// privateBlockRegex matches <private>...</private> spans (non-greedy,
// dotall so blocks may span lines).
var privateBlockRegex = regexp.MustCompile(`(?s)<private>.*?</private>`)

// Strip removes all <private> blocks and trims the remainder.
func Strip(content string) string {
	return strings.TrimSpace(privateBlockRegex.ReplaceAllString(content, ""))
}

// OnlyPrivate reports whether nothing useful remains once private blocks
// are stripped — such content should be skipped entirely, not stored empty.
func OnlyPrivate(content string) bool {
	return Strip(content) == ""
}
