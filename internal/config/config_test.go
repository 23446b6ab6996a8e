package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
users:
  - id: user-1
    name: Dana
    email: dana@example.com
    search:
      linkedin: ["golang developer"]
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.StorePath != "jobscout.db" {
		t.Errorf("expected default store path, got %q", cfg.StorePath)
	}
	if cfg.Scrape.MaxRetries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.Scrape.MaxRetries)
	}
	if cfg.Scrape.RetryDelay != 2*time.Second {
		t.Errorf("expected 2s retry delay, got %v", cfg.Scrape.RetryDelay)
	}
	if cfg.Scrape.RequestDelay != time.Second {
		t.Errorf("expected 1s request delay, got %v", cfg.Scrape.RequestDelay)
	}
	if cfg.Scrape.UserTimeout != 5*time.Minute {
		t.Errorf("expected 5m user timeout, got %v", cfg.Scrape.UserTimeout)
	}
	if cfg.Scrape.BatchInterval != 6*time.Hour {
		t.Errorf("expected 6h batch interval, got %v", cfg.Scrape.BatchInterval)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
scrape:
  max_retries: 5
  retry_delay: 500ms
  request_delay: 250ms
  batch_interval: 1h
notification:
  type: slack
  webhook_url: https://hooks.slack.com/services/T0/B0/xyz
store_path: /tmp/test.db
users:
  - id: user-1
    name: Dana
    email: dana@example.com
    search:
      linkedin: ["golang developer"]
      drushim:
        - position: backend
          experience: "1-3"
    preferences:
      keywords: ["kubernetes"]
      remote_work: true
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Scrape.MaxRetries != 5 {
		t.Errorf("expected 5 retries, got %d", cfg.Scrape.MaxRetries)
	}
	if cfg.Scrape.RetryDelay != 500*time.Millisecond {
		t.Errorf("expected 500ms retry delay, got %v", cfg.Scrape.RetryDelay)
	}
	if cfg.Scrape.BatchInterval != time.Hour {
		t.Errorf("expected 1h batch interval, got %v", cfg.Scrape.BatchInterval)
	}
	if cfg.Notification.Type != "slack" {
		t.Errorf("expected slack notifier, got %q", cfg.Notification.Type)
	}

	u := cfg.Users[0]
	if len(u.Search.Drushim) != 1 || u.Search.Drushim[0].Experience != "1-3" {
		t.Errorf("unexpected drushim queries: %+v", u.Search.Drushim)
	}
	if u.Preferences == nil || u.Preferences.RemoteWork == nil || !*u.Preferences.RemoteWork {
		t.Errorf("expected remote_work=true preference, got %+v", u.Preferences)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_LI_PASSWORD", "secret123")

	cfg, err := Load(writeConfig(t, `
users:
  - id: user-1
    name: Dana
    email: dana@example.com
    linkedin_email: dana@example.com
    linkedin_password: ${TEST_LI_PASSWORD}
    search:
      linkedin: ["golang developer"]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Users[0].LinkedInPassword != "secret123" {
		t.Errorf("expected password from env, got %q", cfg.Users[0].LinkedInPassword)
	}

	m := cfg.CredentialMap()
	if c, ok := m["user-1"]; !ok || c.Password != "secret123" {
		t.Errorf("unexpected credential map: %+v", m)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no users", `store_path: x.db`},
		{"missing id", `
users:
  - name: Dana
    email: dana@example.com
    search:
      linkedin: ["golang"]
`},
		{"duplicate id", `
users:
  - id: user-1
    email: a@example.com
    search:
      linkedin: ["golang"]
  - id: user-1
    email: b@example.com
    search:
      linkedin: ["python"]
`},
		{"missing email", `
users:
  - id: user-1
    search:
      linkedin: ["golang"]
`},
		{"no queries", `
users:
  - id: user-1
    email: a@example.com
`},
		{"bad notifier type", `
notification:
  type: email
users:
  - id: user-1
    email: a@example.com
    search:
      linkedin: ["golang"]
`},
		{"bad slack webhook", `
notification:
  type: slack
  webhook_url: https://evil.example.com/hook
users:
  - id: user-1
    email: a@example.com
    search:
      linkedin: ["golang"]
`},
		{"bad duration", `
scrape:
  retry_delay: soon
users:
  - id: user-1
    email: a@example.com
    search:
      linkedin: ["golang"]
`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.content)); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestUserByID(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u, ok := cfg.UserByID("user-1"); !ok || u.Name != "Dana" {
		t.Errorf("expected to find user-1, got %+v (ok=%v)", u, ok)
	}
	if _, ok := cfg.UserByID("nobody"); ok {
		t.Error("expected lookup miss for unknown id")
	}
}
