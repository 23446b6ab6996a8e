package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"

	"jobscout/internal/fetcher"
	"jobscout/internal/model"
	"jobscout/internal/reldate"
)

const (
	drushimBaseURL = "https://www.drushim.co.il"

	// stateGlobal is the client-side data blob Drushim embeds in its search
	// pages. When present and parseable it is far more reliable than the
	// rendered HTML.
	stateGlobal = "__INITIAL_STATE__"

	// maxBlobDepth bounds the duck-typed search through the state object so
	// pathological payloads cannot recurse forever.
	maxBlobDepth = 8
)

// DrushimExtractor scrapes the Drushim.il search page. It prefers the
// embedded JSON state blob and falls back to HTML card parsing when the blob
// is missing or not valid JSON.
type DrushimExtractor struct {
	baseURL string
	client  *fetcher.Client
	opts    fetcher.Options
	logger  *slog.Logger
	now     func() time.Time
}

// NewDrushim returns a Drushim extractor. baseURL "" means production.
func NewDrushim(baseURL string, client *fetcher.Client, opts fetcher.Options, logger *slog.Logger) *DrushimExtractor {
	if baseURL == "" {
		baseURL = drushimBaseURL
	}
	return &DrushimExtractor{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

func (e *DrushimExtractor) Source() model.Source { return model.SourceDrushim }

// Extract fetches one search-results page and returns candidate listings.
// A fetch failure yields (nil, err); the caller treats it as "no data from
// this query", not as a run failure.
func (e *DrushimExtractor) Extract(ctx context.Context, q model.Query) ([]model.JobListing, error) {
	pageURL := e.searchURL(q)
	body, err := e.client.Fetch(ctx, pageURL, e.opts)
	if err != nil {
		return nil, fmt.Errorf("drushim fetch %q: %w", q.Keyword, err)
	}

	root, err := parseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("drushim parse %q: %w", q.Keyword, err)
	}

	if jobs := e.fromStateBlob(root, q); len(jobs) > 0 {
		e.logger.Debug("drushim extracted from state blob", "keyword", q.Keyword, "count", len(jobs))
		return jobs, nil
	}

	jobs := e.fromCards(root, q)
	e.logger.Debug("drushim extracted from html cards", "keyword", q.Keyword, "count", len(jobs))
	return jobs, nil
}

func (e *DrushimExtractor) searchURL(q model.Query) string {
	term := url.PathEscape(strings.ToLower(strings.TrimSpace(q.Keyword)))
	u := fmt.Sprintf("%s/jobs/search/%s/?ssaen=1", e.baseURL, term)
	if q.Experience != "" {
		u += "&experience=" + url.QueryEscape(q.Experience)
	}
	return u
}

// fromStateBlob locates the embedded JSON state, walks it for the first
// array that looks like job records, and maps each record. Returns nil when
// the blob is absent or unparseable (the site sometimes serves executable
// script where the data should be).
func (e *DrushimExtractor) fromStateBlob(root *html.Node, q model.Query) []model.JobListing {
	blob := embeddedJSON(root, stateGlobal)
	if blob == "" {
		return nil
	}

	var state any
	if err := json.Unmarshal([]byte(blob), &state); err != nil {
		e.logger.Debug("drushim state blob not parseable, falling back to html", "error", err)
		return nil
	}

	records := findJobArray(state, 0)
	if records == nil {
		return nil
	}

	now := e.now()
	jobs := make([]model.JobListing, 0, len(records))
	for _, rec := range records {
		m, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		job, ok := e.mapRecord(m, q, now)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}

func (e *DrushimExtractor) mapRecord(m map[string]any, q model.Query, now time.Time) (model.JobListing, bool) {
	title := stringField(m, "title", "jobTitle", "name", "position")
	company := stringField(m, "company", "companyName", "employer")
	if title == "" || company == "" {
		return model.JobListing{}, false
	}

	job := model.JobListing{
		Title:       title,
		Company:     company,
		Location:    stringField(m, "location", "city", "region"),
		Description: stringField(m, "description", "requirements", "summary"),
		URL:         resolveURL(e.baseURL, stringField(m, "url", "link", "jobUrl")),
		Source:      model.SourceDrushim,
		PostingDays: model.UnknownDays,
	}
	if dateText := stringField(m, "date", "dateText", "publishDate", "postedAt"); dateText != "" {
		job.PostingDateText = dateText
		if days, ok := reldate.Parse(dateText); ok {
			job.PostingDays = days
		}
	}
	return finishListing(job, q.Keyword, now), true
}

// drushimCardSelectors is the ordered try-list for job cards in the rendered
// page. Evaluated in sequence, first selector with a match wins.
var drushimCardSelectors = []selector{
	{"job-item", byClass("div", "job-item")},
	{"jobs-list-item", byClass("div", "jobList")},
	{"open-job", byClass("div", "open-job")},
	{"article", byTag("article")},
}

func (e *DrushimExtractor) fromCards(root *html.Node, q model.Query) []model.JobListing {
	name, cards := cardsBySelectors(root, drushimCardSelectors, 0)
	if len(cards) == 0 {
		return nil
	}
	e.logger.Debug("drushim card selector matched", "selector", name, "cards", len(cards))

	now := e.now()
	var jobs []model.JobListing
	for _, card := range cards {
		f, ok := parseCardLines(nodeLines(card))
		if !ok || f.Company == "" {
			continue
		}
		job := model.JobListing{
			Title:           f.Title,
			Company:         f.Company,
			Location:        f.Location,
			PostingDateText: f.DateText,
			PostingDays:     f.Days,
			URL:             resolveURL(e.baseURL, anchorHref(card, "/job")),
			Source:          model.SourceDrushim,
		}
		jobs = append(jobs, finishListing(job, q.Keyword, now))
	}
	return jobs
}

// embeddedJSON finds a script node mentioning the given global and returns
// the balanced JSON object assigned to it, or "".
func embeddedJSON(root *html.Node, global string) string {
	scripts := findAll(root, byTag("script"), 0)
	for _, s := range scripts {
		if s.FirstChild == nil {
			continue
		}
		text := s.FirstChild.Data
		idx := strings.Index(text, global)
		if idx < 0 {
			continue
		}
		eq := strings.Index(text[idx:], "=")
		if eq < 0 {
			continue
		}
		return balancedObject(text[idx+eq+1:])
	}
	return ""
}

// balancedObject returns the first brace-balanced object literal in s,
// respecting string literals and escapes.
func balancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// findJobArray walks the decoded state looking for the first array whose
// elements duck-type as job records. Map keys are visited in sorted order so
// the walk is deterministic.
func findJobArray(v any, depth int) []any {
	if depth > maxBlobDepth {
		return nil
	}
	switch t := v.(type) {
	case []any:
		if looksLikeJobArray(t) {
			return t
		}
		for _, elem := range t {
			if r := findJobArray(elem, depth+1); r != nil {
				return r
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if r := findJobArray(t[k], depth+1); r != nil {
				return r
			}
		}
	}
	return nil
}

func looksLikeJobArray(arr []any) bool {
	if len(arr) == 0 {
		return false
	}
	m, ok := arr[0].(map[string]any)
	if !ok {
		return false
	}
	return stringField(m, "title", "jobTitle", "name", "position") != "" &&
		stringField(m, "company", "companyName", "employer") != ""
}

// stringField returns the first non-empty string value among keys.
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
