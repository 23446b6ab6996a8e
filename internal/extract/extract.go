// Package extract implements the per-source scraping strategies: Drushim
// (embedded JSON blob with an HTML fallback) and LinkedIn (public search
// page, or authenticated when a session is available). Each strategy
// normalizes raw page content into model.JobListing candidates.
package extract

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"jobscout/internal/model"
)

// ErrBlocked is returned by the authenticated LinkedIn extractor when the
// source answers 403/429, i.e. the session is burned. The caller reports the
// account as locked and keeps whatever was collected before the block.
var ErrBlocked = errors.New("source blocked the authenticated session")

const defaultLocation = "Israel"

// truncate cuts s to at most max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// finishListing applies the shared normalization rules: required-field
// truncation, whitespace-normalized bounded description, location default.
func finishListing(j model.JobListing, keyword string, now time.Time) model.JobListing {
	j.Title = truncate(normalizeSpace(j.Title), model.MaxTitleLen)
	j.Company = truncate(normalizeSpace(j.Company), model.MaxCompanyLen)
	j.Description = truncate(normalizeSpace(j.Description), model.MaxDescriptionLen)
	if j.Location == "" {
		j.Location = defaultLocation
	}
	if j.PostingDays == 0 && j.PostingDateText == "" {
		j.PostingDays = model.UnknownDays
	}
	j.SearchKeyword = keyword
	j.ScrapedAt = now
	return j
}

// resolveURL makes href absolute against base, dropping tracking queries on
// relative links it cannot parse.
func resolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(href, "/")
	}
	return b.ResolveReference(ref).String()
}
