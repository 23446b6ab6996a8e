// Package filter applies user search preferences to candidate listings and
// computes the relevance score.
package filter

import (
	"strings"

	"jobscout/internal/model"
)

// jobTypeKeywords maps a preference job type to the terms, English and
// Hebrew, that identify it in a title or description.
var jobTypeKeywords = map[string][]string{
	"full-time":  {"full-time", "full time", "משרה מלאה"},
	"part-time":  {"part-time", "part time", "משרה חלקית"},
	"contract":   {"contract", "freelance", "קבלן", "פרילנס"},
	"temporary":  {"temporary", "temp", "זמני", "זמנית"},
	"internship": {"internship", "intern", "student", "התמחות", "סטודנט"},
}

// PreferenceFilter keeps listings that satisfy the user's remote-work and
// job-type preferences. Absent preference fields constrain nothing.
type PreferenceFilter struct {
	prefs *model.Preferences
}

func NewPreferenceFilter(prefs *model.Preferences) *PreferenceFilter {
	return &PreferenceFilter{prefs: prefs}
}

// Match reports whether the listing passes every configured preference.
func (f *PreferenceFilter) Match(job model.JobListing) bool {
	if f.prefs == nil {
		return true
	}

	if f.prefs.RemoteWork != nil {
		if isRemote(job) != *f.prefs.RemoteWork {
			return false
		}
	}

	if len(f.prefs.JobTypes) > 0 && !matchesAnyJobType(job, f.prefs.JobTypes) {
		return false
	}

	return true
}

func isRemote(job model.JobListing) bool {
	haystack := strings.ToLower(job.Title + " " + job.Description + " " + job.Location)
	return strings.Contains(haystack, "remote")
}

func matchesAnyJobType(job model.JobListing, types []string) bool {
	haystack := strings.ToLower(job.Title + " " + job.Description)
	for _, t := range types {
		terms, known := jobTypeKeywords[strings.ToLower(strings.TrimSpace(t))]
		if !known {
			continue
		}
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				return true
			}
		}
	}
	return false
}
