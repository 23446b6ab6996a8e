// Package creds provides implementations of the credential-vault capability.
// The real vault lives outside this system; these implementations cover
// local configuration and the no-credentials case.
package creds

import (
	"fmt"
	"log/slog"
	"sync"

	"jobscout/internal/model"
)

// Static serves credentials loaded from configuration (typically expanded
// from environment variables). Login-status updates are recorded in memory
// and logged, standing in for the vault's status writeback.
type Static struct {
	mu       sync.Mutex
	byUser   map[string]model.Credentials
	statuses map[string]model.LoginStatus
	logger   *slog.Logger
}

func NewStatic(byUser map[string]model.Credentials, logger *slog.Logger) *Static {
	return &Static{
		byUser:   byUser,
		statuses: make(map[string]model.LoginStatus),
		logger:   logger,
	}
}

func (s *Static) HasLinkedInCredentials(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byUser[userID]
	return ok && c.Email != "" && c.Password != ""
}

func (s *Static) GetLinkedInCredentials(userID string) (*model.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byUser[userID]
	if !ok || c.Email == "" || c.Password == "" {
		return nil, fmt.Errorf("no linkedin credentials for user %s", userID)
	}
	return &model.Credentials{Email: c.Email, Password: c.Password}, nil
}

// UpdateLoginStatus records the latest status for the user. Only the status
// is logged, never credential material.
func (s *Static) UpdateLoginStatus(userID string, status model.LoginStatus, profile map[string]string) error {
	s.mu.Lock()
	s.statuses[userID] = status
	s.mu.Unlock()
	s.logger.Info("login status updated", "user", userID, "status", status, "profile_fields", len(profile))
	return nil
}

// Status returns the last recorded status for the user, "" if none.
func (s *Static) Status(userID string) model.LoginStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[userID]
}

// Nop reports no credentials for anyone; every scrape stays on the public
// path.
type Nop struct{}

func NewNop() *Nop { return &Nop{} }

func (Nop) HasLinkedInCredentials(string) bool { return false }

func (Nop) GetLinkedInCredentials(userID string) (*model.Credentials, error) {
	return nil, fmt.Errorf("no linkedin credentials for user %s", userID)
}

func (Nop) UpdateLoginStatus(string, model.LoginStatus, map[string]string) error { return nil }
