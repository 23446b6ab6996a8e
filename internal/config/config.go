// Package config loads and validates the YAML configuration. Environment
// variables are expanded before parsing so secrets stay out of the file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"jobscout/internal/model"
)

// Config is the root configuration.
type Config struct {
	Scrape       ScrapeConfig
	Notification NotificationConfig
	StorePath    string
	Users        []User
}

// ScrapeConfig tunes fetching and pacing.
type ScrapeConfig struct {
	MaxRetries       int           // attempts per URL
	RetryDelay       time.Duration // backoff base unit
	RequestDelay     time.Duration // pause between keyword queries within a source
	AuthRequestDelay time.Duration // pause on the authenticated LinkedIn path
	UserTimeout      time.Duration // deadline for one user's full run
	InterUserDelay   time.Duration // pause between users in batch mode
	BatchInterval    time.Duration // how often the daemon re-scrapes everyone
	DrushimBaseURL   string        // override for testing, "" = production
	LinkedInBaseURL  string        // override for testing, "" = production
}

// NotificationConfig selects the notifier.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// User is one person to scrape for.
type User struct {
	ID               string             `yaml:"id"`
	Name             string             `yaml:"name"`
	Email            string             `yaml:"email"`
	LinkedInEmail    string             `yaml:"linkedin_email"`
	LinkedInPassword string             `yaml:"linkedin_password"`
	Search           model.SearchConfig `yaml:"search"`
	Preferences      *model.Preferences `yaml:"preferences"`
}

// rawConfig is the YAML shape (snake_case, durations as strings).
type rawConfig struct {
	Scrape       rawScrapeConfig    `yaml:"scrape"`
	Notification NotificationConfig `yaml:"notification"`
	StorePath    string             `yaml:"store_path"`
	Users        []User             `yaml:"users"`
}

type rawScrapeConfig struct {
	MaxRetries       int    `yaml:"max_retries"`
	RetryDelay       string `yaml:"retry_delay"`
	RequestDelay     string `yaml:"request_delay"`
	AuthRequestDelay string `yaml:"auth_request_delay"`
	UserTimeout      string `yaml:"user_timeout"`
	InterUserDelay   string `yaml:"inter_user_delay"`
	BatchInterval    string `yaml:"batch_interval"`
	DrushimBaseURL   string `yaml:"drushim_base_url"`
	LinkedInBaseURL  string `yaml:"linkedin_base_url"`
}

// Load reads and parses the YAML config at path, expands environment
// variables, validates, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := &Config{
		Notification: raw.Notification,
		StorePath:    raw.StorePath,
		Users:        raw.Users,
		Scrape: ScrapeConfig{
			MaxRetries:      raw.Scrape.MaxRetries,
			DrushimBaseURL:  raw.Scrape.DrushimBaseURL,
			LinkedInBaseURL: raw.Scrape.LinkedInBaseURL,
		},
	}

	if cfg.StorePath == "" {
		cfg.StorePath = "jobscout.db"
	}
	if cfg.Scrape.MaxRetries <= 0 {
		cfg.Scrape.MaxRetries = 3
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
		def  time.Duration
	}{
		{"scrape.retry_delay", raw.Scrape.RetryDelay, &cfg.Scrape.RetryDelay, 2 * time.Second},
		{"scrape.request_delay", raw.Scrape.RequestDelay, &cfg.Scrape.RequestDelay, time.Second},
		{"scrape.auth_request_delay", raw.Scrape.AuthRequestDelay, &cfg.Scrape.AuthRequestDelay, 2 * time.Second},
		{"scrape.user_timeout", raw.Scrape.UserTimeout, &cfg.Scrape.UserTimeout, 5 * time.Minute},
		{"scrape.inter_user_delay", raw.Scrape.InterUserDelay, &cfg.Scrape.InterUserDelay, 10 * time.Second},
		{"scrape.batch_interval", raw.Scrape.BatchInterval, &cfg.Scrape.BatchInterval, 6 * time.Hour},
	}
	for _, d := range durations {
		*d.dst = d.def
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s %q: %w", d.name, d.raw, err)
		}
		*d.dst = v
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if len(cfg.Users) == 0 {
		return fmt.Errorf("at least one user is required")
	}

	seen := make(map[string]bool)
	for i, u := range cfg.Users {
		if u.ID == "" {
			return fmt.Errorf("users[%d].id is required", i)
		}
		if seen[u.ID] {
			return fmt.Errorf("duplicate user id %q", u.ID)
		}
		seen[u.ID] = true
		if u.Email == "" {
			return fmt.Errorf("user %s: email is required", u.ID)
		}
		if len(u.Search.LinkedIn) == 0 && len(u.Search.Drushim) == 0 {
			return fmt.Errorf("user %s: at least one search query is required", u.ID)
		}
	}

	switch cfg.Notification.Type {
	case "", "log":
	case "slack":
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}

// UserByID finds a configured user.
func (c *Config) UserByID(id string) (User, bool) {
	for _, u := range c.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// CredentialMap collects the per-user LinkedIn credentials for the
// credential capability.
func (c *Config) CredentialMap() map[string]model.Credentials {
	m := make(map[string]model.Credentials)
	for _, u := range c.Users {
		if u.LinkedInEmail != "" && u.LinkedInPassword != "" {
			m[u.ID] = model.Credentials{Email: u.LinkedInEmail, Password: u.LinkedInPassword}
		}
	}
	return m
}
