package session

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"jobscout/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLogin_MalformedCredentials(t *testing.T) {
	a := NewAuthenticator(discardLogger())

	tests := []struct {
		name  string
		creds model.Credentials
	}{
		{"missing @", model.Credentials{Email: "not-an-email", Password: "secret123"}},
		{"short password", model.Credentials{Email: "u@example.com", Password: "short"}},
		{"empty", model.Credentials{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := a.Login("user-1", tc.creds); err == nil {
				t.Error("expected error for malformed credentials")
			}
		})
	}
}

func TestLogin_MintsSession(t *testing.T) {
	a := NewAuthenticator(discardLogger())
	creds := model.Credentials{Email: "u@example.com", Password: "secret123"}

	s1, err := a.Login("user-1", creds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s1.UserID != "user-1" {
		t.Errorf("expected user-1, got %s", s1.UserID)
	}
	if !strings.Contains(s1.CookieHeader, "li_at=") || !strings.Contains(s1.CookieHeader, "JSESSIONID=") {
		t.Errorf("cookie header missing expected cookies: %q", s1.CookieHeader)
	}
	if s1.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	s2, err := a.Login("user-1", creds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s1.ID == s2.ID {
		t.Error("expected distinct session ids per login")
	}
}

func TestStore_Lifecycle(t *testing.T) {
	st := NewStore()
	sess := &Session{ID: "abc", UserID: "user-1"}

	if _, ok := st.Get("abc"); ok {
		t.Fatal("expected empty store")
	}

	st.Put(sess)
	if st.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", st.Len())
	}
	got, ok := st.Get("abc")
	if !ok || got.UserID != "user-1" {
		t.Fatalf("expected stored session back, got %+v (ok=%v)", got, ok)
	}

	st.Remove("abc")
	if st.Len() != 0 {
		t.Fatalf("expected empty store after remove, got %d", st.Len())
	}
}
