// Package session holds per-run authenticated-scraping state. Sessions live
// in process memory only: created at the start of an authenticated run,
// discarded when the run ends.
package session

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobscout/internal/model"
)

// Session is one authenticated scraping context.
type Session struct {
	ID           string
	UserID       string
	CookieHeader string
	CreatedAt    time.Time
}

// Store keeps live sessions for one run. It is injected into the orchestrator
// and disposed with it; nothing is shared across runs.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Authenticator mints sessions from credentials. There is no real login
// flow: credentials are checked for shape only and the session token is an
// opaque id. A burned session surfaces later as a 403/429 on fetch.
type Authenticator struct {
	logger *slog.Logger
}

func NewAuthenticator(logger *slog.Logger) *Authenticator {
	return &Authenticator{logger: logger}
}

// Login validates credential shape and returns a fresh session. Credential
// material is never logged.
func (a *Authenticator) Login(userID string, creds model.Credentials) (*Session, error) {
	if !strings.Contains(creds.Email, "@") || len(creds.Password) < 6 {
		return nil, fmt.Errorf("credentials for user %s are malformed", userID)
	}

	id := uuid.NewString()
	sess := &Session{
		ID:           id,
		UserID:       userID,
		CookieHeader: "li_at=" + uuid.NewString() + "; JSESSIONID=" + id,
		CreatedAt:    time.Now(),
	}
	a.logger.Info("authenticated session created", "user", userID, "session", sess.ID)
	return sess, nil
}
