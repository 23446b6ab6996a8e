package notifier

import (
	"log/slog"

	"jobscout/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes the new-jobs digest to the given logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each listing via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyNewJobs logs one line per listing. Returns nil (stdout logging does
// not fail).
func (n *LogNotifier) NotifyNewJobs(email, name string, jobs []model.JobListing) error {
	for _, j := range jobs {
		n.logger.Info("new job",
			"recipient", email,
			"user", name,
			"title", j.Title,
			"company", j.Company,
			"location", j.Location,
			"score", j.MatchScore,
			"source", j.Source,
			"url", j.URL,
		)
	}
	return nil
}
