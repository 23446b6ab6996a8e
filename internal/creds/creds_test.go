package creds

import (
	"io"
	"log/slog"
	"testing"

	"jobscout/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatic_Lookup(t *testing.T) {
	s := NewStatic(map[string]model.Credentials{
		"user-1": {Email: "u@example.com", Password: "secret123"},
		"user-2": {Email: "", Password: ""},
	}, discardLogger())

	if !s.HasLinkedInCredentials("user-1") {
		t.Error("expected credentials for user-1")
	}
	if s.HasLinkedInCredentials("user-2") {
		t.Error("blank credentials must not count")
	}
	if s.HasLinkedInCredentials("nobody") {
		t.Error("unknown user must not have credentials")
	}

	c, err := s.GetLinkedInCredentials("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Email != "u@example.com" {
		t.Errorf("unexpected email: %q", c.Email)
	}

	if _, err := s.GetLinkedInCredentials("nobody"); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestStatic_UpdateLoginStatus(t *testing.T) {
	s := NewStatic(nil, discardLogger())

	if got := s.Status("user-1"); got != "" {
		t.Fatalf("expected no status yet, got %q", got)
	}

	if err := s.UpdateLoginStatus("user-1", model.LoginActive, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Status("user-1"); got != model.LoginActive {
		t.Errorf("expected active, got %q", got)
	}

	if err := s.UpdateLoginStatus("user-1", model.LoginLocked, map[string]string{"name": "U"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Status("user-1"); got != model.LoginLocked {
		t.Errorf("expected locked, got %q", got)
	}
}

func TestNop(t *testing.T) {
	n := NewNop()
	if n.HasLinkedInCredentials("anyone") {
		t.Error("nop must report no credentials")
	}
	if _, err := n.GetLinkedInCredentials("anyone"); err == nil {
		t.Error("expected error from nop lookup")
	}
	if err := n.UpdateLoginStatus("anyone", model.LoginActive, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
