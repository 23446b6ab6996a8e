package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"jobscout/internal/config"
	"jobscout/internal/creds"
	"jobscout/internal/extract"
	"jobscout/internal/fallback"
	"jobscout/internal/fetcher"
	"jobscout/internal/model"
	"jobscout/internal/notifier"
	"jobscout/internal/scraper"
	"jobscout/internal/session"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Job scraper for LinkedIn and Drushim.il",
	Long:  "jobscout scrapes job postings from LinkedIn and Drushim.il, dedupes them across sources, scores them against your preferences and keeps only what you have not seen before.",
	// Default to `start` so invoking the binary directly runs the daemon.
	RunE: runStart,
}

func init() {
	// Secrets referenced from config.yaml (e.g. ${LINKEDIN_PASSWORD}) may
	// live in a local .env; absence is fine.
	godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSCOUT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit flag > JOBSCOUT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSCOUT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// buildRunner wires the full pipeline against the given store.
func buildRunner(cfg *config.Config, jobStore model.JobStore, logger *slog.Logger) *scraper.Runner {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	client := fetcher.New(httpClient, logger)
	opts := fetcher.Options{
		MaxRetries: cfg.Scrape.MaxRetries,
		RetryDelay: cfg.Scrape.RetryDelay,
	}

	drushim := extract.NewDrushim(cfg.Scrape.DrushimBaseURL, client, opts, logger)

	return scraper.New(scraper.Params{
		Drushim:        drushim,
		PublicLinkedIn: extract.NewPublicLinkedIn(cfg.Scrape.LinkedInBaseURL, client, opts, logger),
		AuthLinkedIn: func(sess *session.Session) model.Extractor {
			return extract.NewAuthLinkedIn(cfg.Scrape.LinkedInBaseURL, client, opts, sess, logger)
		},
		Store:            jobStore,
		Creds:            creds.NewStatic(cfg.CredentialMap(), logger),
		Notifier:         setupNotifier(cfg, httpClient, logger),
		Sessions:         session.NewStore(),
		Auth:             session.NewAuthenticator(logger),
		Fallback:         fallback.New(drushim, logger),
		Logger:           logger,
		RequestDelay:     cfg.Scrape.RequestDelay,
		AuthRequestDelay: cfg.Scrape.AuthRequestDelay,
	})
}

func scrapeUser(u config.User) scraper.User {
	return scraper.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Preferences: u.Preferences,
	}
}
