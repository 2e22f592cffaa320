package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSeenLoadMissingFile(t *testing.T) {
	s := NewSeenStore(filepath.Join(t.TempDir(), "seen.json"))
	seen := s.Load()
	if len(seen) != 0 {
		t.Errorf("expected empty map for missing file, got %d entries", len(seen))
	}
}

func TestSeenLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}
	s := NewSeenStore(path)
	if len(s.Load()) != 0 {
		t.Error("expected empty map for corrupt file")
	}
}

func TestSeenSaveAndReload(t *testing.T) {
	s := NewSeenStore(filepath.Join(t.TempDir(), "seen.json"))
	if err := s.Save(map[string]bool{"abc123": true, "def456": true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := s.Load()
	if len(seen) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(seen))
	}
	if !seen["abc123"] || !seen["def456"] {
		t.Error("expected saved fingerprints to be marked seen")
	}
}

func TestSeenReset(t *testing.T) {
	s := NewSeenStore(filepath.Join(t.TempDir(), "seen.json"))
	s.Save(map[string]bool{"abc123": true})
	if err := s.Reset(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Load()) != 0 {
		t.Error("expected empty store after reset")
	}
}

func TestSeenSaveCreatesDirectory(t *testing.T) {
	s := NewSeenStore(filepath.Join(t.TempDir(), "nested", "dir", "seen.json"))
	if err := s.Save(map[string]bool{"x": true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Load()["x"] {
		t.Error("expected entry after save into created directory")
	}
}

func TestSeenSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewSeenStore(filepath.Join(dir, "seen.json"))
	s.Save(map[string]bool{"x": true})

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only seen.json in dir, found %d entries", len(entries))
	}
}
