package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"potluck/internal/models"
	"potluck/internal/session"
)

func newTestStore(t *testing.T, dir string) *BboltStore {
	t.Helper()
	store, err := NewBboltStore(filepath.Join(dir, "state.db"), filepath.Join(dir, "state.key"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSessionStore(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t, dir)

	id := models.Identity{
		ID:             "u1",
		Username:       "alice",
		Bio:            "I bake",
		ProfilePicture: "https://img/a.png",
		Friends:        []string{"u2", "u3"},
	}

	t.Run("empty store yields zero record", func(t *testing.T) {
		rec, err := store.LoadSession()
		if err != nil {
			t.Fatalf("LoadSession failed: %v", err)
		}
		if rec.Credential != "" || rec.Identity != nil || rec.OnboardingComplete {
			t.Errorf("expected zero record, got %+v", rec)
		}
	})

	t.Run("save and load round trip", func(t *testing.T) {
		in := session.Record{Identity: &id, Credential: "secret-token", OnboardingComplete: true}
		if err := store.SaveSession(in); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}

		out, err := store.LoadSession()
		if err != nil {
			t.Fatalf("LoadSession failed: %v", err)
		}
		if out.Credential != "secret-token" {
			t.Errorf("credential = %q, want %q", out.Credential, "secret-token")
		}
		if out.Identity == nil || out.Identity.Username != "alice" {
			t.Errorf("identity not restored: %+v", out.Identity)
		}
		if len(out.Identity.Friends) != 2 {
			t.Errorf("friends = %v, want 2 entries", out.Identity.Friends)
		}
		if !out.OnboardingComplete {
			t.Error("onboarding flag not restored")
		}
	})

	t.Run("clear removes everything", func(t *testing.T) {
		if err := store.ClearSession(); err != nil {
			t.Fatalf("ClearSession failed: %v", err)
		}
		rec, err := store.LoadSession()
		if err != nil {
			t.Fatalf("LoadSession failed: %v", err)
		}
		if rec.Credential != "" || rec.Identity != nil || rec.OnboardingComplete {
			t.Errorf("expected zero record after clear, got %+v", rec)
		}

		// Clearing twice is fine.
		if err := store.ClearSession(); err != nil {
			t.Fatalf("second ClearSession failed: %v", err)
		}
	})
}

func TestCredentialSealedAtRest(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t, dir)

	token := "very-secret-bearer-token"
	if err := store.SaveSession(session.Record{Credential: token}); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("failed to read db file: %v", err)
	}
	if bytes.Contains(raw, []byte(token)) {
		t.Error("bearer token appears in cleartext on disk")
	}
}

func TestRotatedKeyInvalidatesCredential(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t, dir)

	if err := store.SaveSession(session.Record{Credential: "tok"}); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// A fresh key file means the stored credential can no longer be opened.
	if err := os.Remove(filepath.Join(dir, "state.key")); err != nil {
		t.Fatal(err)
	}
	reopened, err := NewBboltStore(filepath.Join(dir, "state.db"), filepath.Join(dir, "state.key"))
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if _, err := reopened.LoadSession(); err == nil {
		t.Error("expected error loading credential sealed with a rotated key")
	}
}
