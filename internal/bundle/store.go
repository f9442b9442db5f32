package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"codestamp/internal/state"
)

// ErrBundleNotFound is returned when a bundle doesn't exist.
var ErrBundleNotFound = errors.New("bundle not found")

// EnvVar overrides the store directory.
const EnvVar = "CODESTAMP_STORE"

// nameLayout orders bundle names chronologically.
const nameLayout = "20060102-150405"

// Store manages bundle directories.
type Store struct {
	Dir string // Base directory for bundles
}

// NewStore creates a store with the given directory.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// DefaultDir returns the default bundle directory (~/.codestamp/bundles).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codestamp/bundles"
	}
	return filepath.Join(home, ".codestamp", "bundles")
}

// ResolveDir returns the bundle directory from env var or default.
func ResolveDir(environ []string) string {
	for _, env := range environ {
		if value, ok := strings.CutPrefix(env, EnvVar+"="); ok && value != "" {
			return value
		}
	}
	return DefaultDir()
}

// NewName builds a bundle name from the capture time and commit hash.
func NewName(t time.Time, hash string) string {
	return t.Format(nameLayout) + "-" + hash
}

// Path returns the directory for a bundle name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Exists checks if a bundle exists.
func (s *Store) Exists(name string) bool {
	if !validName(name) {
		return false
	}
	_, err := os.Stat(filepath.Join(s.Path(name), state.RecordFilename))
	return err == nil
}

// Load reads the record of a bundle.
func (s *Store) Load(name string) (state.Record, error) {
	if !validName(name) {
		return state.Record{}, ErrBundleNotFound
	}
	rec, err := state.LoadRecord(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return state.Record{}, ErrBundleNotFound
		}
		return state.Record{}, err
	}
	return rec, nil
}

// List returns all stored bundles, oldest first. Directories without a
// readable record are skipped.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Summary{}, nil
		}
		return nil, err
	}

	summaries := []Summary{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		path := s.Path(entry.Name())
		rec, err := state.LoadRecord(path)
		if err != nil {
			continue
		}

		summaries = append(summaries, Summary{
			Name:     entry.Name(),
			Hash:     rec.Git.Hash,
			User:     rec.Git.User,
			Captured: capturedAt(rec, path),
			Path:     path,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Captured.Equal(summaries[j].Captured) {
			return summaries[i].Name < summaries[j].Name
		}
		return summaries[i].Captured.Before(summaries[j].Captured)
	})
	return summaries, nil
}

// Delete removes a bundle directory.
func (s *Store) Delete(name string) error {
	if !s.Exists(name) {
		return ErrBundleNotFound
	}
	return os.RemoveAll(s.Path(name))
}

// Prune removes bundles captured before now minus olderThan.
// Returns the names of the bundles deleted.
func (s *Store) Prune(olderThan time.Duration) ([]string, error) {
	summaries, err := s.List()
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-olderThan)
	deleted := []string{}
	for _, sum := range summaries {
		if !sum.Captured.Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(sum.Path); err != nil {
			return deleted, err
		}
		deleted = append(deleted, sum.Name)
	}
	return deleted, nil
}

// capturedAt parses the record date, falling back to the directory mtime.
func capturedAt(rec state.Record, path string) time.Time {
	if t, err := time.ParseInLocation(state.DateLayout, rec.Date, time.Local); err == nil {
		return t
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name
}
