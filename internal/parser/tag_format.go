package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var tagRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

// NormalizeTag lowercases a tag and strips a leading # or + prefix
// Accepts formats like:
// - "#Coffee" -> "coffee"
// - "+sick"   -> "sick"
// Returns error if the remaining name is not a valid tag
func NormalizeTag(tag string) (string, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	tag = strings.TrimPrefix(tag, "#")
	tag = strings.TrimPrefix(tag, "+")

	if !tagRegex.MatchString(tag) {
		return "", fmt.Errorf("invalid tag %q. Use letters, numbers, '_' or '-'", tag)
	}

	return tag, nil
}

// IsValidTag checks if a string can be used as a tag
func IsValidTag(tag string) bool {
	_, err := NormalizeTag(tag)
	return err == nil
}
