package extract

import (
	"strings"

	"jobscout/internal/model"
	"jobscout/internal/reldate"
)

// noiseTerms mark lines that are chrome, not content: action buttons,
// status markers and bare date fragments in either language.
var noiseTerms = []string{
	"Apply", "Save", "ago", "with verification",
	"שעות", "ימים", "אתמול", "היום",
}

// hebrewBoilerplate marks lines that describe the posting, not the company:
// salary, position type, region, required experience.
var hebrewBoilerplate = []string{
	"שכר", "משרה", "אזור", "ניסיון", "שנות", "היקף",
}

// knownCities maps city-name fragments (lower-cased) to the canonical
// location string.
var knownCities = []struct {
	fragment string
	name     string
}{
	{"tel aviv", "Tel Aviv"},
	{"תל אביב", "Tel Aviv"},
	{"jerusalem", "Jerusalem"},
	{"ירושלים", "Jerusalem"},
	{"haifa", "Haifa"},
	{"חיפה", "Haifa"},
}

// cardFields is the outcome of heuristic card-text parsing.
type cardFields struct {
	Title    string
	Company  string
	Location string
	DateText string
	Days     int
}

// parseCardLines applies the shared title/company/location/date heuristic to
// the text lines of one job card. Returns false when no plausible title
// survives noise filtering.
func parseCardLines(lines []string) (cardFields, bool) {
	f := cardFields{Days: model.UnknownDays}

	// Dates and cities may sit on lines that are otherwise noise, so scan
	// everything before filtering.
	for _, line := range lines {
		if f.DateText == "" {
			if days, ok := reldate.Parse(line); ok {
				f.DateText = line
				f.Days = days
			}
		}
		if f.Location == "" {
			f.Location = matchCity(line)
		}
	}

	var clean []string
	for _, line := range lines {
		if isNoise(line) {
			continue
		}
		clean = append(clean, line)
	}
	if len(clean) == 0 {
		return f, false
	}

	f.Title = strings.TrimSpace(strings.TrimSuffix(clean[0], "with verification"))
	if f.Title == "" {
		return f, false
	}

	// Company: a short line soon after the title that is not posting
	// boilerplate.
	for i := 1; i < len(clean) && i <= 4; i++ {
		line := clean[i]
		if line == f.Title || len([]rune(line)) > 60 {
			continue
		}
		if containsAny(line, hebrewBoilerplate) {
			continue
		}
		f.Company = line
		break
	}

	return f, true
}

func isNoise(line string) bool {
	return containsAny(line, noiseTerms)
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func matchCity(line string) string {
	lower := strings.ToLower(line)
	for _, c := range knownCities {
		if strings.Contains(lower, c.fragment) {
			return c.name
		}
	}
	return ""
}
