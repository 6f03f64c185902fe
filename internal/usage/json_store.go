package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONStore persists the ledger as a JSON file.
type JSONStore struct {
	path string
}

// NewJSONStore creates a file-backed ledger store at path.
func NewJSONStore(path string) (*JSONStore, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}
	return &JSONStore{path: path}, nil
}

// Load reads the ledger file. A missing or corrupt file yields (nil, nil)
// so the tracker starts fresh rather than refusing to boot.
func (s *JSONStore) Load() (*Ledger, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	var ledger Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, nil
	}
	return &ledger, nil
}

// Save writes the ledger atomically via a temp file rename.
func (s *JSONStore) Save(ledger *Ledger) error {
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}
