package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"jobscout/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier posts the new-jobs digest to a Slack channel via Incoming
// Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts one digest message per run.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// NotifyNewJobs sends a single digest message for the batch. A 429 from
// Slack is retried once after the advertised delay.
func (s *SlackNotifier) NotifyNewJobs(email, name string, jobs []model.JobListing) error {
	if len(jobs) == 0 {
		return nil
	}

	body, err := json.Marshal(buildDigest(name, jobs))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp2, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		defer resp2.Body.Close()
		if resp2.StatusCode != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", resp2.StatusCode)
		}
		s.logger.Info("slack digest sent", "user", name, "jobs", len(jobs), "retried", true)
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	s.logger.Info("slack digest sent", "user", name, "jobs", len(jobs))
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

func buildDigest(name string, jobs []model.JobListing) slackPayload {
	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{
				Type: "plain_text",
				Text: fmt.Sprintf("🔎 %d new jobs for %s", len(jobs), name),
			},
		},
	}

	for _, j := range jobs {
		age := "age unknown"
		if j.PostingDays != model.UnknownDays {
			age = fmt.Sprintf("%dd old", j.PostingDays)
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*%s*\n%s — %s", j.Title, j.Company, j.Location)},
				{Type: "mrkdwn", Text: fmt.Sprintf("score %d · %s · %s", j.MatchScore, j.Source, age)},
			},
		})
		if j.URL != "" {
			blocks = append(blocks, slackBlock{
				Type: "actions",
				Elements: []slackElement{
					{
						Type:  "button",
						Text:  slackText{Type: "plain_text", Text: "Open"},
						URL:   j.URL,
						Style: "primary",
					},
				},
			})
		}
		blocks = append(blocks, slackBlock{Type: "divider"})
	}

	return slackPayload{Blocks: blocks}
}

// SendTestMessage sends a dummy listing to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	test := model.JobListing{
		Title:       "Test Notification — Integration Verified",
		Company:     "jobscout",
		Location:    "Israel",
		Source:      model.SourceDrushim,
		PostingDays: 0,
		MatchScore:  100,
		URL:         "https://www.drushim.co.il",
		ScrapedAt:   time.Now(),
	}
	return n.NotifyNewJobs("test@example.com", "Test User", []model.JobListing{test})
}
