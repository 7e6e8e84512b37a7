package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ranfysvalle02/bridgebase/internal/logger"
)

const dataFileExt = ".bbd"

// Store is a directory of collections, one datafile per collection.
type Store struct {
	dir string

	mu          sync.RWMutex
	collections map[string]*Collection
	closed      bool
}

// Open loads every collection datafile under dir, creating the directory
// when missing.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &Store{
		dir:         dir,
		collections: make(map[string]*Collection),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), dataFileExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), dataFileExt)
		col, err := newCollection(name, filepath.Join(dir, entry.Name()))
		if err != nil {
			s.Close()
			return nil, err
		}
		s.collections[name] = col
		logger.Debug("opened collection", "name", name, "documents", col.Count())
	}
	return s, nil
}

// Collection returns an existing collection.
func (s *Store) Collection(name string) (*Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	col, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	return col, nil
}

// EnsureCollection returns the named collection, creating it when missing.
func (s *Store) EnsureCollection(name string) (*Collection, error) {
	if !validCollectionName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCollectionName, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if col, ok := s.collections[name]; ok {
		return col, nil
	}

	col, err := newCollection(name, filepath.Join(s.dir, name+dataFileExt))
	if err != nil {
		return nil, err
	}
	s.collections[name] = col
	return col, nil
}

// Collections returns the collection names in sorted order.
func (s *Store) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ping reports whether the store is usable.
func (s *Store) Ping() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// Close syncs and closes every collection. The store is unusable afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for name, col := range s.collections {
		if err := col.close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close collection %s: %w", name, err)
		}
	}
	return firstErr
}

// validCollectionName keeps names filesystem-safe: letters, digits, "_",
// and "-" only.
func validCollectionName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
