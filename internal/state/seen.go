package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SeenStore persists which news fingerprints have already been delivered.
// It is a flat JSON mapping fingerprint -> true, reloaded on every check and
// rewritten atomically. There is deliberately no in-memory cache: every load
// reflects what survived the last crash. Single writer process only.
type SeenStore struct {
	path string
}

// NewSeenStore creates a store backed by the given file path.
func NewSeenStore(path string) *SeenStore {
	return &SeenStore{path: path}
}

// Load reads the seen-fingerprint mapping. A missing or unreadable file is
// treated as empty state, never an error.
func (s *SeenStore) Load() map[string]bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]bool{}
	}
	seen := map[string]bool{}
	if err := json.Unmarshal(data, &seen); err != nil {
		return map[string]bool{}
	}
	return seen
}

// Save overwrites the backing file with the given mapping. It writes to a
// temp file in the same directory and renames it into place so a crash
// mid-write cannot leave a corrupt store behind.
func (s *SeenStore) Save(seen map[string]bool) error {
	data, err := json.Marshal(seen)
	if err != nil {
		return fmt.Errorf("encoding seen store: %w", err)
	}
	return writeAtomic(s.path, data)
}

// Reset clears the store. The daily report boundary is the only caller.
func (s *SeenStore) Reset() error {
	return s.Save(map[string]bool{})
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
