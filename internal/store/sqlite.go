// Package store persists scraped job listings per user in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"jobscout/internal/dedup"
	"jobscout/internal/model"
)

// SQLiteStore implements model.JobStore. Natural-key uniqueness per user is
// enforced here with a unique index, not by the scraping core.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// jobs table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS jobs (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id           TEXT NOT NULL,
		natural_key       TEXT NOT NULL,
		title             TEXT NOT NULL,
		company           TEXT NOT NULL,
		location          TEXT,
		posting_date_text TEXT,
		posting_days      INTEGER,
		source            TEXT,
		url               TEXT,
		description       TEXT,
		search_keyword    TEXT,
		match_score       INTEGER,
		enhanced          INTEGER,
		scraped_at        DATETIME,
		created_at        DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, natural_key)
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Exists reports whether the user already has a listing with this natural key.
func (s *SQLiteStore) Exists(ctx context.Context, userID, title, company string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM jobs WHERE user_id = ? AND natural_key = ?",
		userID, dedup.Key(title, company),
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking job existence for user %s: %w", userID, err)
	}
	return true, nil
}

// Insert stores one listing for the user. A concurrent duplicate of the same
// natural key is silently ignored.
func (s *SQLiteStore) Insert(ctx context.Context, userID string, job model.JobListing) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO jobs (
			user_id, natural_key, title, company, location,
			posting_date_text, posting_days, source, url, description,
			search_keyword, match_score, enhanced, scraped_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, dedup.Key(job.Title, job.Company), job.Title, job.Company, job.Location,
		job.PostingDateText, job.PostingDays, string(job.Source), job.URL, job.Description,
		job.SearchKeyword, job.MatchScore, boolToInt(job.Enhanced), job.ScrapedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting job %q for user %s: %w", job.Title, userID, err)
	}
	return nil
}

// ListByUser returns the user's persisted listings, best score first, newest
// within equal scores.
func (s *SQLiteStore) ListByUser(ctx context.Context, userID string) ([]model.JobListing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, company, location, posting_date_text, posting_days,
		        source, url, description, search_keyword, match_score,
		        enhanced, scraped_at
		 FROM jobs
		 WHERE user_id = ?
		 ORDER BY match_score DESC, scraped_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing jobs for user %s: %w", userID, err)
	}
	defer rows.Close()

	var jobs []model.JobListing
	for rows.Next() {
		var j model.JobListing
		var source string
		var enhanced int
		var scrapedAt time.Time
		if err := rows.Scan(
			&j.Title, &j.Company, &j.Location, &j.PostingDateText, &j.PostingDays,
			&source, &j.URL, &j.Description, &j.SearchKeyword, &j.MatchScore,
			&enhanced, &scrapedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		j.Source = model.Source(source)
		j.Enhanced = enhanced != 0
		j.ScrapedAt = scrapedAt
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
