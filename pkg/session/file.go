package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// FileStore is a file-based session store for CLI applications.
// Sessions are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// DefaultDir returns ~/.config/meshview/sessions.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "meshview", "sessions"), nil
}

// NewFileStore creates a new file-based session store.
// If baseDir is empty, [DefaultDir] is used.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) sessionPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) read(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &sess, nil
}

func (s *FileStore) Get(_ context.Context, id string) (*Session, error) {
	if !ValidID(id) {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.read(s.sessionPath(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", id, err)
	}
	if sess.IsExpired() {
		return nil, nil
	}
	return sess, nil
}

func (s *FileStore) Set(_ context.Context, sess *Session) error {
	if !ValidID(sess.ID) {
		return fmt.Errorf("invalid session id %q", sess.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.sessionPath(sess.ID), data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if !ValidID(id) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.sessionPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// each calls fn for every readable session file.
func (s *FileStore) each(fn func(path string, sess *Session)) error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("read session dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, e.Name())
		sess, err := s.read(path)
		if err != nil {
			continue
		}
		fn(path, sess)
	}
	return nil
}

func (s *FileStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	err := s.each(func(path string, sess *Session) {
		if !sess.IsExpired() {
			ids = append(ids, strings.TrimSuffix(filepath.Base(path), ".json"))
		}
	})
	slices.Sort(ids)
	return ids, err
}

func (s *FileStore) Cleanup(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.each(func(path string, sess *Session) {
		if sess.IsExpired() {
			os.Remove(path)
		}
	})
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for session files.
func (s *FileStore) Path() string { return s.baseDir }

var _ Store = (*FileStore)(nil)
