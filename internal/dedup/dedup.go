// Package dedup collapses cross-source duplicates using a normalized
// (title, company) natural key.
package dedup

import (
	"log/slog"
	"strings"
	"unicode"

	"jobscout/internal/model"
)

// Key builds the natural key for a listing: title and company lower-cased
// with everything but letters and digits stripped. The same job posted on
// Drushim and LinkedIn collapses to the same key.
func Key(title, company string) string {
	return normalize(title) + "::" + normalize(company)
}

func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Deduplicate keeps the first occurrence of each natural key, in arrival
// order. Order is load-bearing: the pipeline extracts Drushim before
// LinkedIn, so Drushim wins ties.
func Deduplicate(jobs []model.JobListing, logger *slog.Logger) []model.JobListing {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]model.JobListing, 0, len(jobs))
	for _, job := range jobs {
		key := Key(job.Title, job.Company)
		if _, dup := seen[key]; dup {
			logger.Debug("dropping duplicate listing",
				"title", job.Title,
				"company", job.Company,
				"source", job.Source,
			)
			continue
		}
		seen[key] = struct{}{}
		out = append(out, job)
	}
	return out
}
