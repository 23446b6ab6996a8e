package model

import (
	"context"
	"time"
)

// Source identifies which external job board a listing came from.
type Source string

const (
	SourceLinkedIn Source = "LinkedIn"
	SourceDrushim  Source = "DrushimIL"
)

// UnknownDays is the postingDays sentinel for listings whose age could not
// be parsed. It sorts after every real age.
const UnknownDays = 999

const (
	MaxTitleLen       = 200
	MaxCompanyLen     = 100
	MaxDescriptionLen = 1000
)

// JobListing is the normalized representation of a posting from any source.
type JobListing struct {
	Title           string    // required, truncated to MaxTitleLen
	Company         string    // required, truncated to MaxCompanyLen
	Location        string    // defaults to "Israel"
	PostingDateText string    // raw relative-date text, source language preserved
	PostingDays     int       // age in days, UnknownDays if unparseable
	Source          Source    // originating board
	URL             string    // detail page link
	Description     string    // whitespace-normalized, truncated to MaxDescriptionLen
	SearchKeyword   string    // the query that produced this listing
	ScrapedAt       time.Time // our clock
	Enhanced        bool      // true when extracted through an authenticated session
	MatchScore      int       // 0-100 relevance heuristic
}

// Query is one search unit handed to an extractor: a free-text keyword for
// LinkedIn, plus an experience range ("0-5") that only Drushim consumes.
type Query struct {
	Keyword    string
	Experience string
}

// SearchConfig holds the per-user search queries, one list per source.
type SearchConfig struct {
	LinkedIn []string       `yaml:"linkedin" json:"linkedin"`
	Drushim  []DrushimQuery `yaml:"drushim" json:"drushim"`
}

// DrushimQuery is a position/experience pair for the Drushim board.
type DrushimQuery struct {
	Position   string `yaml:"position" json:"position"`
	Experience string `yaml:"experience" json:"experience"`
}

// Preferences narrows and reorders results. Nil/empty fields mean
// "no constraint". Read-only to the scraping core.
type Preferences struct {
	Keywords        []string `yaml:"keywords"`
	Locations       []string `yaml:"locations"`
	ExperienceLevel string   `yaml:"experience_level"`
	JobTypes        []string `yaml:"job_types"`
	RemoteWork      *bool    `yaml:"remote_work"`
	CompanySize     []string `yaml:"company_size"`
}

// RunResult is the terminal outcome of one scrape invocation.
type RunResult struct {
	Success      bool   `json:"success"`
	JobCount     int    `json:"jobCount"`
	Error        string `json:"error,omitempty"`
	UsedFallback bool   `json:"usedFallback,omitempty"`
}

// Extractor turns one query into candidate listings for a single source.
type Extractor interface {
	Source() Source
	Extract(ctx context.Context, q Query) ([]JobListing, error)
}

// JobStore is the persistence collaborator. Natural-key uniqueness per user
// is the store's responsibility, not the core's.
type JobStore interface {
	Exists(ctx context.Context, userID, title, company string) (bool, error)
	Insert(ctx context.Context, userID string, job JobListing) error
	ListByUser(ctx context.Context, userID string) ([]JobListing, error)
}

// Notifier delivers a digest of net-new listings. Failures must not fail the
// scrape that triggered them.
type Notifier interface {
	NotifyNewJobs(email, name string, jobs []JobListing) error
}

// LoginStatus is reported back to the credential collaborator.
type LoginStatus string

const (
	LoginActive  LoginStatus = "active"
	LoginExpired LoginStatus = "expired"
	LoginInvalid LoginStatus = "invalid"
	LoginLocked  LoginStatus = "locked"
)

// Credentials is a decrypted LinkedIn email/password pair.
type Credentials struct {
	Email    string
	Password string
}

// CredentialStore is the credential-vault collaborator.
type CredentialStore interface {
	HasLinkedInCredentials(userID string) bool
	GetLinkedInCredentials(userID string) (*Credentials, error)
	UpdateLoginStatus(userID string, status LoginStatus, profile map[string]string) error
}
