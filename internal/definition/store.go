// Package definition persists stored procedure source text to disk.
package definition

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for procedure names that cannot be used as a
// file name inside the output directory.
var ErrInvalidName = errors.New("invalid procedure file name")

const fileExt = ".sql"

// FileStore writes one {proc_name}.sql file per procedure into a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the output directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the destination path for procName.
func (s *FileStore) Path(procName string) (string, error) {
	if procName == "" || procName == "." || procName == ".." ||
		strings.ContainsAny(procName, `/\`) || strings.ContainsRune(procName, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, procName)
	}
	return filepath.Join(s.dir, procName+fileExt), nil
}

// Persist writes sourceText verbatim, replacing any previous file for the
// same procedure, and returns the file path.
func (s *FileStore) Persist(sourceText, procName string) (string, error) {
	path, err := s.Path(procName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sourceText), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Read returns the persisted source text for procName.
func (s *FileStore) Read(procName string) (string, error) {
	path, err := s.Path(procName)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
