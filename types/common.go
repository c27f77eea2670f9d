package types

import (
	"regexp"
	"strings"
)

var reUUID = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidUUID reports whether s is a canonical lowercase UUID,
// the format every conversation and message ID is generated with.
// Run input through [NormalizeID] first.
func ValidUUID(s string) bool {
	return reUUID.MatchString(s)
}

// NormalizeID trims and lowercases an ID so that every spelling
// of the same UUID compares, sorts and deduplicates as one value.
func NormalizeID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clampLimit(n, def, max uint) uint {
	if n == 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
