package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// #tracker or #tracker(value)
	trackerTokenRegex = regexp.MustCompile(`#([a-zA-Z0-9_-]+)(?:\(([^)]*)\))?`)
	// +context, only at the start or after whitespace so "1+1" is left alone
	contextTokenRegex = regexp.MustCompile(`(^|\s)\+([a-zA-Z0-9_-]+)`)
)

// TagToken is a tag found in a note, with its optional value
type TagToken struct {
	Tag   string
	Value *float64
}

// ParsedNote represents the tags parsed out of a free-text note
type ParsedNote struct {
	Note     string
	Trackers []TagToken
	Contexts []string
	Errors   []string
}

// ParseNote extracts tracker and context references from a note
// Syntax: "Slept badly #sleep(5.5) #coffee #coffee +sick"
func ParseNote(input string) ParsedNote {
	result := ParsedNote{
		Note:     strings.Join(strings.Fields(input), " "),
		Trackers: []TagToken{},
		Contexts: []string{},
		Errors:   []string{},
	}

	// Extract trackers, keeping repeats: "#coffee #coffee" is two cups
	for _, match := range trackerTokenRegex.FindAllStringSubmatch(input, -1) {
		tag := strings.ToLower(match[1])
		token := TagToken{Tag: tag}

		if raw := strings.TrimSpace(match[2]); raw != "" {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				result.Errors = append(result.Errors, "Invalid value '"+raw+"' for #"+tag)
			} else {
				token.Value = &value
			}
		}
		result.Trackers = append(result.Trackers, token)
	}

	// Extract contexts, once each
	seen := map[string]bool{}
	for _, match := range contextTokenRegex.FindAllStringSubmatch(input, -1) {
		tag := strings.ToLower(match[2])
		if seen[tag] {
			continue
		}
		seen[tag] = true
		result.Contexts = append(result.Contexts, tag)
	}

	return result
}

// HasTags reports whether the note referenced anything
func (p ParsedNote) HasTags() bool {
	return len(p.Trackers) > 0 || len(p.Contexts) > 0
}

// TrackerTags returns the distinct tracker names in order of first appearance
func (p ParsedNote) TrackerTags() []string {
	var tags []string
	seen := map[string]bool{}
	for _, t := range p.Trackers {
		if !seen[t.Tag] {
			seen[t.Tag] = true
			tags = append(tags, t.Tag)
		}
	}
	return tags
}
