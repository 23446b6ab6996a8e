package filter

import (
	"strings"

	"jobscout/internal/model"
)

var seniorityTerms = []string{"senior", "lead", "principal", "manager", "director"}

// KeywordRelevance is the per-card bonus computed at extraction time on the
// authenticated LinkedIn path: how strongly the originating search keyword
// shows up in the listing itself.
func KeywordRelevance(keyword, title, description string) int {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	titleLower := strings.ToLower(title)
	descLower := strings.ToLower(description)

	bonus := 0
	if kw != "" && strings.Contains(titleLower, kw) {
		bonus += 30
	}
	if kw != "" && strings.Contains(descLower, kw) {
		bonus += 15
	}
	for _, term := range seniorityTerms {
		if strings.Contains(titleLower, term) || strings.Contains(descLower, term) {
			bonus += 10
			break
		}
	}
	return bonus
}

// Score computes the 0-100 relevance score: recency, source weight,
// description richness, plus whatever keyword bonus extraction already put
// on the listing.
func Score(job model.JobListing) int {
	score := 50

	switch {
	case job.PostingDays <= 1:
		score += 20
	case job.PostingDays <= 7:
		score += 10
	}

	if job.Source == model.SourceLinkedIn {
		score += 15
	}
	if len(job.Description) > 500 {
		score += 10
	}

	score += job.MatchScore // keyword bonus from authenticated extraction

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
