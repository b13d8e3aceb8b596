package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// IntentOutcome says how confident the tag extraction is
type IntentOutcome int

const (
	// IntentUnparsed means no tracker could be identified
	IntentUnparsed IntentOutcome = iota
	// IntentMatched means Tags holds the trackers the question is about
	IntentMatched
	// IntentAmbiguous means several trackers partially matched; see Candidates
	IntentAmbiguous
)

func (o IntentOutcome) String() string {
	switch o {
	case IntentMatched:
		return "matched"
	case IntentAmbiguous:
		return "ambiguous"
	default:
		return "unparsed"
	}
}

// Focus is the kind of answer a question is after
type Focus string

const (
	FocusGeneral   Focus = "general"
	FocusIntervals Focus = "intervals"
	FocusPeriods   Focus = "periods"
)

// Intent is a best-effort reading of a question about tracked data.
// It is a hint for building the prompt, never a strict grammar.
type Intent struct {
	Outcome    IntentOutcome
	Tags       []string
	Candidates []string
	WindowDays int // 0 when the question names no window
	Focus      Focus
}

var (
	wordRegex       = regexp.MustCompile(`[a-z0-9_-]+`)
	lastWindowRegex = regexp.MustCompile(`\b(?:last|past)\s+(\d+)\s+(day|days|week|weeks|month|months)\b`)

	intervalHints = []string{"how often", "time between", "between each", "interval", "gap", "since last", "how frequently"}
	periodHints   = []string{"streak", "in a row", "consecutive", "period", "stretch", "how many days", "how long was"}
)

// ExtractIntent reads a question and picks out the trackers, window and focus
// Matching order:
// - explicit #tag / +tag tokens that name a known tag
// - whole words equal to a known tag
// - words that partially match known tags (one candidate matches, several are ambiguous)
func ExtractIntent(question string, knownTags []string) Intent {
	q := strings.ToLower(question)
	intent := Intent{
		Outcome:    IntentUnparsed,
		WindowDays: extractWindow(q),
		Focus:      extractFocus(q),
	}

	known := map[string]bool{}
	for _, tag := range knownTags {
		known[strings.ToLower(tag)] = true
	}

	// Explicit references
	parsed := ParseNote(q)
	var explicit []string
	for _, tag := range append(parsed.TrackerTags(), parsed.Contexts...) {
		if known[tag] {
			explicit = append(explicit, tag)
		}
	}
	if len(explicit) > 0 {
		intent.Outcome = IntentMatched
		intent.Tags = uniqueSorted(explicit)
		return intent
	}

	// Whole words, also trying "sleep quality" against "sleep_quality"
	words := wordRegex.FindAllString(q, -1)
	var exact []string
	for tag := range known {
		spaced := strings.NewReplacer("_", " ", "-", " ").Replace(tag)
		for _, w := range words {
			if w == tag || singular(w) == tag {
				exact = append(exact, tag)
				break
			}
		}
		if spaced != tag && strings.Contains(q, spaced) {
			exact = append(exact, tag)
		}
	}
	if len(exact) > 0 {
		intent.Outcome = IntentMatched
		intent.Tags = uniqueSorted(exact)
		return intent
	}

	// Partial matches
	var partial []string
	for tag := range known {
		for _, w := range words {
			if len(w) < 3 || len(tag) < 3 {
				continue
			}
			if strings.HasPrefix(tag, w) || strings.HasPrefix(w, tag) {
				partial = append(partial, tag)
				break
			}
		}
	}
	partial = uniqueSorted(partial)
	switch len(partial) {
	case 0:
	case 1:
		intent.Outcome = IntentMatched
		intent.Tags = partial
	default:
		intent.Outcome = IntentAmbiguous
		intent.Candidates = partial
	}

	return intent
}

func extractWindow(q string) int {
	if m := lastWindowRegex.FindStringSubmatch(q); len(m) == 3 {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			switch m[2] {
			case "week", "weeks":
				return n * 7
			case "month", "months":
				return n * 30
			default:
				return n
			}
		}
	}

	switch {
	case strings.Contains(q, "today"):
		return 1
	case strings.Contains(q, "yesterday"):
		return 2
	case strings.Contains(q, "this week"), strings.Contains(q, "last week"):
		return 7
	case strings.Contains(q, "this month"), strings.Contains(q, "last month"):
		return 30
	}
	return 0
}

func extractFocus(q string) Focus {
	for _, hint := range intervalHints {
		if strings.Contains(q, hint) {
			return FocusIntervals
		}
	}
	for _, hint := range periodHints {
		if strings.Contains(q, hint) {
			return FocusPeriods
		}
	}
	return FocusGeneral
}

func singular(w string) string {
	if len(w) > 3 && strings.HasSuffix(w, "s") {
		return strings.TrimSuffix(w, "s")
	}
	return w
}

func uniqueSorted(tags []string) []string {
	out := lo.Uniq(tags)
	sort.Strings(out)
	return out
}
