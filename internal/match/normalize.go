// Package match implements the rule that decides whether a to-do and a
// job entry denote the same real-world task.
//
// A part number is treated as a strong key: when the job carries one, the
// to-do must carry the same one, and notes similarity still has to back
// it up. Without a part number, notes similarity is the only signal, so
// the bar stays high to keep unrelated tasks that merely share wording
// from pairing up.
package match

import (
	"strings"

	"worklog/internal/store"
)

// NormalizePartNumber canonicalizes a part number for comparison.
// Two part numbers match iff their normalized forms are equal.
func NormalizePartNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeNotes trims surrounding whitespace. Case is handled inside
// Similarity, which lower-cases both operands before scoring.
func NormalizeNotes(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeCategory coerces an absent or unknown category to the default.
// Legacy and imported records are repaired, not rejected.
func NormalizeCategory(c store.Category) store.Category {
	if !c.Valid() {
		return store.DefaultCategory()
	}
	return c
}
