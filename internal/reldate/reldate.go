// Package reldate turns free-text relative posting dates, English or Hebrew,
// into an age in days.
package reldate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	englishRe = regexp.MustCompile(`(?i)(\d+)\+?\s*(hour|day|week|month)s?\s+ago`)
	// Optional leading לפני ("ago"), optional count, then a unit. A missing
	// count means one ("לפני שבוע" = a week ago).
	hebrewRe = regexp.MustCompile(`(?:לפני\s+)?(\d+)?\s*(שעות|שעה|ימים|יום|שבועות|שבוע|חודשים|חודש)`)
)

// Parse extracts a posting age in days from text. The second return value is
// false when no recognizable date phrase is present; callers then fall back
// to the unknown-age sentinel.
func Parse(text string) (int, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	lower := strings.ToLower(s)

	switch {
	case strings.Contains(lower, "just now"), strings.Contains(lower, "today"):
		return 0, true
	case strings.Contains(lower, "yesterday"):
		return 1, true
	case strings.Contains(s, "היום"):
		return 0, true
	case strings.Contains(s, "אתמול"):
		return 1, true
	// Hebrew dual forms carry no digit.
	case strings.Contains(s, "יומיים"):
		return 2, true
	case strings.Contains(s, "שבועיים"):
		return 14, true
	case strings.Contains(s, "חודשיים"):
		return 60, true
	}

	if m := englishRe.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return n * unitDays(m[2]), true
	}

	if m := hebrewRe.FindStringSubmatch(s); m != nil {
		n := 1
		if m[1] != "" {
			v, err := strconv.Atoi(m[1])
			if err != nil {
				return 0, false
			}
			n = v
		}
		return n * hebrewUnitDays(m[2]), true
	}

	return 0, false
}

func unitDays(unit string) int {
	switch unit {
	case "hour":
		return 0
	case "week":
		return 7
	case "month":
		return 30
	default: // day
		return 1
	}
}

func hebrewUnitDays(unit string) int {
	switch unit {
	case "שעה", "שעות":
		return 0
	case "שבוע", "שבועות":
		return 7
	case "חודש", "חודשים":
		return 30
	default: // יום, ימים
		return 1
	}
}
