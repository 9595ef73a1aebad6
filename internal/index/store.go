package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mvp-joe/tagscan/internal/logging"
	"github.com/mvp-joe/tagscan/internal/model"
)

// DefaultFile is the index location relative to the scanned root.
const DefaultFile = ".tagscan/index.json"

// Store reads and writes the persisted index: a single JSON array of
// file entries.
type Store struct {
	path string
	log  logging.Logger
}

// NewStore creates a store for the index file at path.
func NewStore(path string, log logging.Logger) *Store {
	return &Store{path: path, log: log}
}

// Path returns the index file location.
func (s *Store) Path() string { return s.path }

// Load reads the persisted index. A missing file is an empty index; a
// file that does not hold a JSON array is treated the same, with a
// warning, so a corrupt index never blocks a rescan.
func (s *Store) Load() []model.FileEntry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("cannot read index %s, starting empty: %v", s.path, err)
		}
		return nil
	}

	var entries []model.FileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.log.Warn("index %s is malformed, starting empty: %v", s.path, err)
		return nil
	}
	return entries
}

// Save replaces the persisted index wholesale. Entries are sorted by
// file path so repeated runs over an unchanged tree produce identical
// bytes, and the write goes through a temp file plus rename so a crash
// cannot leave a truncated index behind.
func (s *Store) Save(entries []model.FileEntry) error {
	if entries == nil {
		entries = []model.FileEntry{}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].FilePath < entries[j].FilePath
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace index: %w", err)
	}
	return nil
}
