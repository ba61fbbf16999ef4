package artifact

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/specialistvlad/gridclosure/internal/fsutil"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// ManifestFilename is the name Manifest.WriteDir writes to.
const ManifestFilename = "manifest.yaml"

// ManifestEntry describes one emitted artifact.
type ManifestEntry struct {
	Name   string `yaml:"name"`
	Size   int    `yaml:"size"`
	Digest string `yaml:"digest"`
}

// Manifest lists the artifacts of one run, sorted by name.
type Manifest struct {
	Algorithm string          `yaml:"algorithm"`
	Artifacts []ManifestEntry `yaml:"artifacts"`
}

// Digest returns the hex encoded blake3 sum of payload.
func Digest(payload []byte) string {
	sum := blake3.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// ManifestSink forwards artifacts to Next and records their digests. It is
// safe for concurrent use when Next is.
type ManifestSink struct {
	Next Sink

	mu      sync.Mutex
	entries map[string]ManifestEntry
}

func NewManifestSink(next Sink) *ManifestSink {
	return &ManifestSink{Next: next, entries: make(map[string]ManifestEntry)}
}

// Emit records the artifact only once Next accepted it.
func (s *ManifestSink) Emit(filename string, payload []byte) error {
	if err := s.Next.Emit(filename, payload); err != nil {
		return err
	}
	entry := ManifestEntry{Name: filename, Size: len(payload), Digest: Digest(payload)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[filename] = entry
	return nil
}

// Manifest returns a snapshot of everything recorded so far.
func (s *ManifestSink) Manifest() Manifest {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := Manifest{Algorithm: "blake3", Artifacts: make([]ManifestEntry, 0, len(s.entries))}
	for _, e := range s.entries {
		m.Artifacts = append(m.Artifacts, e)
	}
	sort.Slice(m.Artifacts, func(i, j int) bool { return m.Artifacts[i].Name < m.Artifacts[j].Name })
	return m
}

// Marshal renders the manifest as YAML.
func (m Manifest) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return out, nil
}

// WriteDir writes the manifest as ManifestFilename into dir.
func (m Manifest) WriteDir(dir string) error {
	out, err := m.Marshal()
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(filepath.Join(dir, ManifestFilename), out, 0o644)
}

// Names returns the artifact names in manifest order.
func (m Manifest) Names() []string {
	names := make([]string, 0, len(m.Artifacts))
	for _, e := range m.Artifacts {
		names = append(names, e.Name)
	}
	return names
}

// ParseManifest decodes a manifest written by Marshal.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return m, nil
}

// Verify checks that payload matches the recorded entry for filename.
func (m Manifest) Verify(filename string, payload []byte) error {
	for _, e := range m.Artifacts {
		if e.Name != filename {
			continue
		}
		if e.Size != len(payload) || e.Digest != Digest(payload) {
			return fmt.Errorf("artifact %q does not match its manifest entry", filename)
		}
		return nil
	}
	return fmt.Errorf("artifact %q is not in the manifest", filename)
}
