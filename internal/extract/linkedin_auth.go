package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"jobscout/internal/fetcher"
	"jobscout/internal/filter"
	"jobscout/internal/model"
	"jobscout/internal/reldate"
	"jobscout/internal/session"
)

// maxAuthCards caps cards per keyword on the authenticated surface.
const maxAuthCards = 25

// Authenticated layouts differ by account state, so each field gets extra
// selectors tried ahead of the public ones.
var (
	authTitleSelectors = append([]selector{
		{"job-card-list__title", byClass("", "job-card-list__title")},
		{"job-card-title", byClass("", "job-card-title")},
	}, linkedinTitleSelectors...)

	authCompanySelectors = append([]selector{
		{"job-card-container__company-name", byClass("", "job-card-container__company-name")},
		{"job-card-container__primary-description", byClass("", "job-card-container__primary-description")},
	}, linkedinCompanySelectors...)

	authLocationSelectors = append([]selector{
		{"job-card-container__metadata-item", byClass("", "job-card-container__metadata-item")},
	}, linkedinLocationSelectors...)

	authCardSelectors = append([]selector{
		{"job-card-container", byClass("", "job-card-container")},
	}, linkedinCardSelectors...)
)

// AuthLinkedInExtractor scrapes LinkedIn job search through a live
// authenticated session. A 403/429 means the session is burned; the extractor
// surfaces ErrBlocked and the caller downgrades or reports the account locked.
type AuthLinkedInExtractor struct {
	baseURL string
	client  *fetcher.Client
	opts    fetcher.Options
	sess    *session.Session
	logger  *slog.Logger
	now     func() time.Time
}

// NewAuthLinkedIn returns an authenticated extractor bound to one session.
func NewAuthLinkedIn(baseURL string, client *fetcher.Client, opts fetcher.Options, sess *session.Session, logger *slog.Logger) *AuthLinkedInExtractor {
	if baseURL == "" {
		baseURL = linkedinBaseURL
	}
	return &AuthLinkedInExtractor{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		opts:    opts,
		sess:    sess,
		logger:  logger,
		now:     time.Now,
	}
}

func (e *AuthLinkedInExtractor) Source() model.Source { return model.SourceLinkedIn }

// Extract fetches the search page with session cookies attached and parses
// job cards, computing the per-card keyword bonus at extraction time.
func (e *AuthLinkedInExtractor) Extract(ctx context.Context, q model.Query) ([]model.JobListing, error) {
	opts := e.opts
	opts.Headers = map[string]string{"Cookie": e.sess.CookieHeader}
	for k, v := range e.opts.Headers {
		if k != "Cookie" {
			opts.Headers[k] = v
		}
	}

	body, err := e.client.Fetch(ctx, searchPageURL(e.baseURL, q.Keyword), opts)
	if err != nil {
		var httpErr *model.HTTPError
		if errors.As(err, &httpErr) &&
			(httpErr.StatusCode == http.StatusForbidden || httpErr.StatusCode == http.StatusTooManyRequests) {
			return nil, fmt.Errorf("linkedin auth fetch %q: %w", q.Keyword, ErrBlocked)
		}
		return nil, fmt.Errorf("linkedin auth fetch %q: %w", q.Keyword, err)
	}

	root, err := parseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("linkedin auth parse %q: %w", q.Keyword, err)
	}

	jobs := e.extractCards(root, q)
	e.logger.Debug("linkedin authenticated extracted", "keyword", q.Keyword, "count", len(jobs))
	return jobs, nil
}

func (e *AuthLinkedInExtractor) extractCards(root *html.Node, q model.Query) []model.JobListing {
	name, cards := cardsBySelectors(root, authCardSelectors, maxAuthCards)
	if len(cards) == 0 {
		return nil
	}
	e.logger.Debug("linkedin auth card selector matched", "selector", name, "cards", len(cards))

	now := e.now()
	var jobs []model.JobListing
	for _, card := range cards {
		if hasViewerStatus(card) {
			continue
		}

		job := model.JobListing{
			Source:      model.SourceLinkedIn,
			PostingDays: model.UnknownDays,
			Enhanced:    true,
		}
		job.Title = textBySelectors(card, authTitleSelectors)
		job.Company = textBySelectors(card, authCompanySelectors)
		job.Location = matchCity(textBySelectors(card, authLocationSelectors))
		if dateText := textBySelectors(card, linkedinDateSelectors); dateText != "" {
			job.PostingDateText = dateText
			if days, ok := reldate.Parse(dateText); ok {
				job.PostingDays = days
			}
		}

		if job.Title == "" || job.Company == "" {
			f, ok := parseCardLines(nodeLines(card))
			if !ok {
				continue
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
			continue
		}

		job.Title = strings.TrimSpace(strings.TrimSuffix(job.Title, "with verification"))
		job.URL = resolveURL(e.baseURL, anchorHref(card, jobDetailPath))
		job.MatchScore = filter.KeywordRelevance(q.Keyword, job.Title, job.Description)
		jobs = append(jobs, finishListing(job, q.Keyword, now))
	}
	return jobs
}
