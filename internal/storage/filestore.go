package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/caseproof/summarize/internal/logging"
)

// datedFilePattern matches the files this store owns; anything else in
// the directory is left alone.
var datedFilePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\.md$`)

// FileStore keeps one markdown file per day in a directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store writing dated files under dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Read returns the stored document for the date, or ok=false when the
// file does not exist.
func (s *FileStore) Read(ctx context.Context, date string) (string, bool, error) {
	data, err := os.ReadFile(s.path(date))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read checklist %s: %w", s.path(date), err)
	}
	return string(data), true, nil
}

// ReadLatestBefore returns the newest dated file strictly older than
// the given date. Date-formatted names sort chronologically, so a
// lexical comparison is enough.
func (s *FileStore) ReadLatestBefore(ctx context.Context, date string) (string, bool, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to list checklist directory %s: %w", s.dir, err)
	}

	cutoff := date + ".md"
	var latest string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !datedFilePattern.MatchString(name) {
			continue
		}
		if name >= cutoff {
			continue
		}
		if name > latest {
			latest = name
		}
	}
	if latest == "" {
		return "", false, nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, latest))
	if err != nil {
		return "", false, fmt.Errorf("failed to read checklist %s: %w", filepath.Join(s.dir, latest), err)
	}
	return string(data), true, nil
}

// Write persists the document atomically: the content is written to a
// temporary file in the same directory and renamed into place. The
// temporary file is removed on every error path.
func (s *FileStore) Write(ctx context.Context, date, content string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create checklist directory %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+date+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary checklist file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op after a successful rename.
		if removeErr := os.Remove(tmpName); removeErr != nil && !errors.Is(removeErr, fs.ErrNotExist) {
			logging.Warn("failed to remove temporary checklist file", "path", tmpName, "error", removeErr)
		}
	}()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write checklist %s: %w", s.path(date), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write checklist %s: %w", s.path(date), err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to write checklist %s: %w", s.path(date), err)
	}
	if err := os.Rename(tmpName, s.path(date)); err != nil {
		return fmt.Errorf("failed to write checklist %s: %w", s.path(date), err)
	}
	return nil
}

// Location returns the file path for a date.
func (s *FileStore) Location(date string) string {
	return s.path(date)
}

func (s *FileStore) path(date string) string {
	return filepath.Join(s.dir, date+".md")
}
