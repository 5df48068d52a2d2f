// Package storage writes uploaded files to the local filesystem and maps
// them to public URL paths.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type LocalStore struct {
	root    string // absolute root directory
	baseURL string // public URL prefix for URL()
}

func NewLocalStore(root, baseURL string) *LocalStore {
	if !filepath.IsAbs(root) {
		cwd, _ := os.Getwd()
		root = filepath.Join(cwd, root)
	}
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Root returns the absolute directory files are stored under.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) abs(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

// Save streams r into <root>/<category>/<name> and returns the relative path.
func (s *LocalStore) Save(category, name string, r io.Reader) (string, error) {
	rel := filepath.ToSlash(filepath.Join(category, name))
	full := s.abs(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage: mkdir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", rel, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", rel, err)
	}
	return rel, nil
}

// URL maps a stored relative path to its public URL path.
func (s *LocalStore) URL(path string) string {
	return s.baseURL + "/uploads/" + strings.TrimLeft(filepath.ToSlash(path), "/")
}

func (s *LocalStore) Delete(path string) error {
	err := os.Remove(s.abs(path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete %s: %w", path, err)
	}
	return nil
}

func (s *LocalStore) Exists(path string) bool {
	_, err := os.Stat(s.abs(path))
	return err == nil
}
