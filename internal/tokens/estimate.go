// Package tokens provides deterministic token-count estimation heuristics.
// Both estimators are pure, locale-independent, and monotonic in input
// length, so results are reproducible across processes.
package tokens

import (
	"math"
	"strings"
)

const (
	// CharsPerToken is the character-density heuristic ratio. ~4 chars per
	// token is accurate within ~10% for English prose.
	CharsPerToken = 4

	// WordsPerToken is the word-density heuristic ratio (~0.75 words per
	// token, i.e. ~1.33 tokens per word).
	WordsPerToken = 0.75
)

// Estimate returns an approximate token count using character density.
// Empty input costs 0; any non-empty input costs at least 1.
func Estimate(text string) int {
	if len(text) == 0 {
		return 0
	}
	n := len(text) / CharsPerToken
	if n < 1 {
		return 1
	}
	return n
}

// EstimateAccurate returns an approximate token count using word density:
// whitespace-separated word count divided by WordsPerToken, rounded.
// Any non-empty input costs at least 1.
func EstimateAccurate(text string) int {
	words := strings.Fields(text)
	if len(words) == 0 {
		if len(text) == 0 {
			return 0
		}
		return 1
	}
	n := int(math.Round(float64(len(words)) / WordsPerToken))
	if n < 1 {
		return 1
	}
	return n
}
