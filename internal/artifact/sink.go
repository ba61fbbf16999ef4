package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/specialistvlad/gridclosure/internal/fsutil"
)

// Sink receives encoded artifacts.
type Sink interface {
	Emit(filename string, payload []byte) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(filename string, payload []byte) error

func (f SinkFunc) Emit(filename string, payload []byte) error {
	return f(filename, payload)
}

// MapSink keeps artifacts in memory. It is safe for concurrent use.
type MapSink struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
}

func NewMapSink() *MapSink {
	return &MapSink{artifacts: make(map[string][]byte)}
}

// Emit stores a copy of payload. A repeated filename is an error.
func (s *MapSink) Emit(filename string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.artifacts[filename]; exists {
		return fmt.Errorf("artifact %q emitted twice", filename)
	}
	s.artifacts[filename] = append([]byte(nil), payload...)
	return nil
}

// Get returns the payload stored under filename.
func (s *MapSink) Get(filename string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.artifacts[filename]
	return p, ok
}

// Filenames returns the names of all stored artifacts, sorted.
func (s *MapSink) Filenames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.artifacts))
	for name := range s.artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored artifacts.
func (s *MapSink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.artifacts)
}

// DirSink writes each artifact as a file in Dir.
type DirSink struct {
	Dir string
}

// NewDirSink creates dir if needed and removes the artifacts and manifest a
// previous run left in it. Other files are kept.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	s := &DirSink{Dir: dir}
	stale, err := s.Artifacts()
	if err != nil {
		return nil, err
	}
	for _, name := range append(stale, ManifestFilename) {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale artifact: %w", err)
		}
	}
	return s, nil
}

func (s *DirSink) Emit(filename string, payload []byte) error {
	if filename != filepath.Base(filename) {
		return fmt.Errorf("artifact name %q must not contain a path", filename)
	}
	return fsutil.WriteFileAtomic(filepath.Join(s.Dir, filename), payload, 0o644)
}

// Artifacts returns the sorted names of the .pb files directly in Dir.
func (s *DirSink) Artifacts() ([]string, error) {
	files, err := fsutil.FindFilesByExtension([]string{s.Dir}, ".pb")
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	dir := filepath.Clean(s.Dir)
	names := make([]string, 0, len(files))
	for _, f := range files {
		if filepath.Dir(f) == dir {
			names = append(names, filepath.Base(f))
		}
	}
	return names, nil
}
