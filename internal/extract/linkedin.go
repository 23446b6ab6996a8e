package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"jobscout/internal/fetcher"
	"jobscout/internal/model"
	"jobscout/internal/reldate"
)

const (
	linkedinBaseURL = "https://www.linkedin.com"

	// maxPublicCards caps how many cards one keyword yields on the public
	// search surface.
	maxPublicCards = 10

	jobDetailPath = "/jobs/view/"
)

// viewerStatusMarkers flag cards the account already interacted with. Only
// meaningful in authenticated mode, but the public page is checked too since
// the markup occasionally leaks the footer.
var viewerStatusMarkers = []string{"Applied", "Viewed", "Saved"}

// linkedinCardSelectors is the ordered try-list for search-result cards.
var linkedinCardSelectors = []selector{
	{"base-card", byClass("div", "base-card")},
	{"job-search-card", byClass("div", "job-search-card")},
	{"result-card", byClass("li", "result-card")},
}

var linkedinTitleSelectors = []selector{
	{"base-search-card__title", byClass("h3", "base-search-card__title")},
	{"result-card__title", byClass("h3", "result-card__title")},
	{"any-h3", byTag("h3")},
}

var linkedinCompanySelectors = []selector{
	{"base-search-card__subtitle", byClass("h4", "base-search-card__subtitle")},
	{"result-card__subtitle", byClass("", "result-card__subtitle")},
	{"any-h4", byTag("h4")},
}

var linkedinDateSelectors = []selector{
	{"listdate", byClass("time", "listdate")},
	{"any-time", byTag("time")},
}

var linkedinLocationSelectors = []selector{
	{"job-search-card__location", byClass("span", "job-search-card__location")},
	{"job-result-card__location", byClass("span", "job-result-card__location")},
}

// PublicLinkedInExtractor scrapes the unauthenticated LinkedIn job-search
// results page for one keyword query.
type PublicLinkedInExtractor struct {
	baseURL string
	client  *fetcher.Client
	opts    fetcher.Options
	logger  *slog.Logger
	now     func() time.Time
}

// NewPublicLinkedIn returns a public-surface extractor. baseURL "" means
// production.
func NewPublicLinkedIn(baseURL string, client *fetcher.Client, opts fetcher.Options, logger *slog.Logger) *PublicLinkedInExtractor {
	if baseURL == "" {
		baseURL = linkedinBaseURL
	}
	return &PublicLinkedInExtractor{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

func (e *PublicLinkedInExtractor) Source() model.Source { return model.SourceLinkedIn }

// Extract fetches the search page for q.Keyword and parses up to
// maxPublicCards job cards.
func (e *PublicLinkedInExtractor) Extract(ctx context.Context, q model.Query) ([]model.JobListing, error) {
	body, err := e.client.Fetch(ctx, searchPageURL(e.baseURL, q.Keyword), e.opts)
	if err != nil {
		return nil, fmt.Errorf("linkedin fetch %q: %w", q.Keyword, err)
	}

	root, err := parseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("linkedin parse %q: %w", q.Keyword, err)
	}

	jobs := extractLinkedInCards(root, e.baseURL, q, maxPublicCards, e.now(), e.logger)
	e.logger.Debug("linkedin public extracted", "keyword", q.Keyword, "count", len(jobs))
	return jobs, nil
}

func searchPageURL(base, keyword string) string {
	v := url.Values{}
	v.Set("keywords", keyword)
	v.Set("location", "Israel")
	return base + "/jobs/search?" + v.Encode()
}

// extractLinkedInCards is shared by the public and authenticated extractors;
// the layouts overlap and both go through the same per-field try-lists with
// the line heuristic as a last resort.
func extractLinkedInCards(root *html.Node, baseURL string, q model.Query, limit int, now time.Time, logger *slog.Logger) []model.JobListing {
	name, cards := cardsBySelectors(root, linkedinCardSelectors, limit)
	if len(cards) == 0 {
		return nil
	}
	logger.Debug("linkedin card selector matched", "selector", name, "cards", len(cards))

	var jobs []model.JobListing
	for _, card := range cards {
		if hasViewerStatus(card) {
			continue
		}
		job, ok := parseLinkedInCard(card, baseURL, now)
		if !ok {
			continue
		}
		jobs = append(jobs, finishListing(job, q.Keyword, now))
	}
	return jobs
}

// hasViewerStatus reports whether the card footer says the viewer already
// applied to / viewed / saved this listing.
func hasViewerStatus(card *html.Node) bool {
	footer := findFirst(card, byClass("", "footer"))
	if footer == nil {
		return false
	}
	text := nodeText(footer)
	for _, marker := range viewerStatusMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func parseLinkedInCard(card *html.Node, baseURL string, now time.Time) (model.JobListing, bool) {
	job := model.JobListing{
		Source:      model.SourceLinkedIn,
		PostingDays: model.UnknownDays,
	}

	job.Title = textBySelectors(card, linkedinTitleSelectors)
	job.Company = textBySelectors(card, linkedinCompanySelectors)
	job.Location = matchCity(textBySelectors(card, linkedinLocationSelectors))

	if dateText := textBySelectors(card, linkedinDateSelectors); dateText != "" {
		job.PostingDateText = dateText
		if days, ok := reldate.Parse(dateText); ok {
			job.PostingDays = days
		}
	}

	// Selector miss: fall back to the shared line heuristic.
	if job.Title == "" || job.Company == "" {
		f, ok := parseCardLines(nodeLines(card))
		if !ok {
			return model.JobListing{}, false
		}
		if job.Title == "" {
			job.Title = f.Title
		}
		if job.Company == "" {
			job.Company = f.Company
		}
		if job.Location == "" {
			job.Location = f.Location
		}
		if job.PostingDateText == "" {
			job.PostingDateText = f.DateText
			job.PostingDays = f.Days
		}
	}
	if job.Title == "" || job.Company == "" {
		return model.JobListing{}, false
	}

	job.Title = strings.TrimSpace(strings.TrimSuffix(job.Title, "with verification"))
	job.URL = resolveURL(baseURL, anchorHref(card, jobDetailPath))
	return job, true
}
