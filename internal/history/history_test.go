package history

import (
	"path/filepath"
	"testing"

	"github.com/glasswing-labs/minishell/internal/historykey"
)

func TestStoreAppendAndAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.solo")
	s, err := Open(path, 100, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.Append("echo hi", 0); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append("false", 1); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := s.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Line != "echo hi" || entries[0].Status != 0 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Line != "false" || entries[1].Status != 1 {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestStoreCompactsBeyondLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.solo")
	s, err := Open(path, 2, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	for i := 0; i < 5; i++ {
		if err := s.Append("cmd", 0); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	entries, err := s.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2 after compaction", len(entries))
	}

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "history-*.log.gz"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("expected at least one rotated archive, found none")
	}
}

func TestStoreSecureRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.solo")
	s, err := Open(path, 100, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	// Force the platform-independent fallback backend so this test never
	// touches a real OS credential store.
	s.keyMgr = historykey.NewManager(historykey.WithBackend(historykey.NewFallbackBackend()))

	if err := s.Append("secret command", 0); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := s.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(entries) != 1 || entries[0].Line != "secret command" {
		t.Fatalf("entries = %+v", entries)
	}
}
