package match

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxScoredRunes bounds the O(len(a)*len(b)) edit-distance cost. Longer
// inputs are truncated before scoring; exact equality of very long
// strings is still caught by the short-circuit above the truncation.
const maxScoredRunes = 2000

// Similarity returns a normalized edit-distance ratio in [0,1].
// It is 0 if either input is empty, 1 if the inputs are equal after
// case-folding, and otherwise 1 - distance/max(len). Symmetric.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}

	a = truncateRunes(a, maxScoredRunes)
	b = truncateRunes(b, maxScoredRunes)

	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
