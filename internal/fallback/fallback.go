// Package fallback implements the secondary search strategy: when the
// primary pipeline yields nothing new, the original keywords are simplified
// and re-run against Drushim only.
package fallback

import (
	"context"
	"log/slog"
	"strings"

	"jobscout/internal/model"
)

const (
	// maxSourceKeywords is how many of the original keyword queries are
	// considered for simplification.
	maxSourceKeywords = 3

	// maxVariantsPerKeyword caps the simplified variants derived from one
	// original keyword.
	maxVariantsPerKeyword = 2

	// maxResults stops the fallback pass once enough candidates accumulated.
	maxResults = 20

	// defaultExperience is the fixed experience range used for all fallback
	// Drushim queries.
	defaultExperience = "0-5"
)

// fillerWords are location and boilerplate tokens stripped during keyword
// simplification.
var fillerWords = map[string]struct{}{
	"israel": {}, "tel": {}, "aviv": {}, "jerusalem": {}, "haifa": {},
	"remote": {}, "hybrid": {}, "onsite": {},
	"job": {}, "jobs": {}, "position": {}, "positions": {}, "role": {},
	"in": {}, "at": {}, "the": {}, "a": {}, "an": {}, "and": {}, "or": {},
	"full": {}, "part": {}, "time": {},
}

// roleNouns anchor a keyword: a variant consisting of just the role noun is
// still a meaningful search.
var roleNouns = map[string]struct{}{
	"engineer": {}, "developer": {}, "manager": {}, "analyst": {},
	"consultant": {}, "designer": {}, "architect": {}, "scientist": {},
}

// SimplifyKeyword derives up to two simplified variants of keyword: the
// keyword with filler stripped, and the bare role noun. The original itself
// is never returned.
func SimplifyKeyword(keyword string) []string {
	original := strings.ToLower(strings.TrimSpace(keyword))
	tokens := strings.Fields(original)

	var kept []string
	role := ""
	for _, tok := range tokens {
		if _, filler := fillerWords[tok]; filler {
			continue
		}
		kept = append(kept, tok)
		if _, isRole := roleNouns[tok]; isRole {
			role = tok
		}
	}

	var variants []string
	add := func(v string) {
		if v == "" || v == original || len(variants) >= maxVariantsPerKeyword {
			return
		}
		for _, seen := range variants {
			if seen == v {
				return
			}
		}
		variants = append(variants, v)
	}

	add(strings.Join(kept, " "))
	add(role)
	return variants
}

// Coordinator re-runs the Drushim path with simplified keywords.
type Coordinator struct {
	drushim model.Extractor
	logger  *slog.Logger
}

func New(drushim model.Extractor, logger *slog.Logger) *Coordinator {
	return &Coordinator{drushim: drushim, logger: logger}
}

// Run derives simplified variants from the first few LinkedIn-style keywords
// in cfg and extracts from Drushim until maxResults candidates accumulate.
// Per-query failures are logged and skipped.
func (c *Coordinator) Run(ctx context.Context, cfg model.SearchConfig) []model.JobListing {
	keywords := cfg.LinkedIn
	if len(keywords) > maxSourceKeywords {
		keywords = keywords[:maxSourceKeywords]
	}

	var out []model.JobListing
	for _, kw := range keywords {
		for _, variant := range SimplifyKeyword(kw) {
			if ctx.Err() != nil {
				return out
			}
			jobs, err := c.drushim.Extract(ctx, model.Query{
				Keyword:    variant,
				Experience: defaultExperience,
			})
			if err != nil {
				c.logger.Warn("fallback query failed", "keyword", variant, "error", err)
				continue
			}
			c.logger.Info("fallback query done", "keyword", variant, "count", len(jobs))
			out = append(out, jobs...)
			if len(out) >= maxResults {
				return out[:maxResults]
			}
		}
	}
	return out
}
