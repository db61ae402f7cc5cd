// Package store persists a tracker.Project as a single YAML document
// in a per-user data directory. Loads and saves always cover the whole
// tree; there is no partial I/O.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/prism/pkg/tracker"
)

// projectFileName is the single file holding the whole tree.
const projectFileName = "project.yaml"

// Locker serializes one load → mutate → save cycle against other
// processes. The default is advisory-only: acquire always succeeds and
// release does nothing. Callers that need real cross-process exclusion
// plug in their own implementation.
type Locker interface {
	Acquire() (release func(), err error)
}

type nopLocker struct{}

func (nopLocker) Acquire() (func(), error) { return func() {}, nil }

// Store manages the project file inside a data directory.
type Store struct {
	Root   string
	Locker Locker
}

// NewStore creates a Store rooted at the given directory, creating the
// directory if needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{Root: root, Locker: nopLocker{}}, nil
}

// ProjectPath returns the path to the project file.
func (s *Store) ProjectPath() string {
	return filepath.Join(s.Root, projectFileName)
}

// Acquire takes the store's cycle lock.
func (s *Store) Acquire() (func(), error) {
	return s.Locker.Acquire()
}

// Load reads and links the project tree. A missing file is an empty
// project, not an error.
func (s *Store) Load() (*tracker.Project, error) {
	data, err := os.ReadFile(s.ProjectPath())
	if os.IsNotExist(err) {
		return tracker.NewProject(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", projectFileName, err)
	}

	var f projectFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", projectFileName, err)
	}
	if f.Version > fileVersion {
		return nil, fmt.Errorf("%s has version %d, newer than this binary understands", projectFileName, f.Version)
	}

	p, err := link(&f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", projectFileName, err)
	}
	return p, nil
}

// Save flattens and writes the project tree atomically: the document is
// written to a temp file in the same directory and renamed over the old
// one, so a crash mid-write never corrupts the project file.
func (s *Store) Save(p *tracker.Project) error {
	data, err := yaml.Marshal(flatten(p))
	if err != nil {
		return fmt.Errorf("serializing project: %w", err)
	}

	tmp, err := os.CreateTemp(s.Root, ".tmp-project-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing project file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing project file: %w", err)
	}
	if err := os.Rename(tmpPath, s.ProjectPath()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing project file: %w", err)
	}
	return nil
}
