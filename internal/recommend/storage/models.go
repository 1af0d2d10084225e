// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const artifactExt = ".gob.gz"

// ErrNotFound is returned when no artifact exists for a name or version.
var ErrNotFound = errors.New("artifact not found")

// ArtifactMetadata describes a stored artifact.
type ArtifactMetadata struct {
	// Name is the artifact name, usually the model name it serves.
	Name string `json:"name"`

	// Version is monotonically increasing per name.
	Version int `json:"version"`

	// BuiltAt is when the artifact was computed.
	BuiltAt time.Time `json:"built_at"`

	// SavedAt is when the artifact was written.
	SavedAt time.Time `json:"saved_at"`

	InteractionCount int `json:"interaction_count"`
	ItemCount        int `json:"item_count"`
	UserCount        int `json:"user_count"`

	// Checksum is the SHA-256 of the uncompressed state.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed size.
	SizeBytes int64 `json:"size_bytes"`

	BuildDurationMS int64 `json:"build_duration_ms"`
}

// storedFile is the on-disk format for artifact files.
type storedFile struct {
	Metadata       ArtifactMetadata
	CompressedData []byte
}

// Store manages versioned artifacts in one directory.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// versions holds every version present on disk per name, ascending.
	versions map[string][]int
}

// NewStore creates a store rooted at baseDir, creating the directory if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string][]int),
	}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan existing artifacts: %w", err)
	}
	return s, nil
}

// OpenStore opens an existing store directory without creating it.
func OpenStore(baseDir string) (*Store, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("open storage directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open storage directory: %s is not a directory", baseDir)
	}
	return NewStore(baseDir)
}

// scan indexes the artifact files in the directory.
func (s *Store) scan() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, version, ok := parseArtifactFilename(entry.Name())
		if !ok {
			continue
		}
		s.versions[name] = append(s.versions[name], version)
	}

	for name := range s.versions {
		sort.Ints(s.versions[name])
	}
	return nil
}

// parseArtifactFilename splits "user_knn_v3.gob.gz" into ("user_knn", 3).
func parseArtifactFilename(filename string) (name string, version int, ok bool) {
	base, found := strings.CutSuffix(filename, artifactExt)
	if !found {
		return "", 0, false
	}

	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0, false
	}

	version, err := strconv.Atoi(base[idx+2:])
	if err != nil || version <= 0 {
		return "", 0, false
	}
	return base[:idx], version, true
}

// Save writes state under name and version.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, state interface{}, meta ArtifactMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	if version <= 0 {
		return fmt.Errorf("artifact version must be positive, got %d", version)
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(state); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	hash := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return fmt.Errorf("compress artifact: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	meta.Name = name
	meta.Version = version
	meta.Checksum = hex.EncodeToString(hash[:])
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeFile(s.artifactPath(name, version), storedFile{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		return err
	}

	if !containsVersion(s.versions[name], version) {
		s.versions[name] = append(s.versions[name], version)
		sort.Ints(s.versions[name])
	}
	return nil
}

// writeFile encodes sf to a temporary file and renames it into place.
func (s *Store) writeFile(path string, sf storedFile) error {
	tmp, err := os.CreateTemp(s.baseDir, ".artifact-*")
	if err != nil {
		return fmt.Errorf("create artifact file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op after a successful rename

	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close() //nolint:errcheck // encode error takes precedence
		return fmt.Errorf("write artifact file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("publish artifact file: %w", err)
	}
	return nil
}

// Load decodes the artifact into target. Version 0 loads the latest.
func (s *Store) Load(ctx context.Context, name string, version int, target interface{}) (*ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		latest, ok := s.latest(name)
		if !ok {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		version = latest
	}

	sf, err := s.readFile(s.artifactPath(name, version))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s v%d: %w", name, version, ErrNotFound)
		}
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress artifact: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("checksum mismatch for %s v%d: expected %s, got %s", name, version, sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &sf.Metadata, nil
}

func (s *Store) readFile(path string) (*storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the store directory and a validated name
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}
	return &sf, nil
}

// LatestVersion returns the newest version stored for name.
func (s *Store) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest(name)
}

func (s *Store) latest(name string) (int, bool) {
	versions := s.versions[name]
	if len(versions) == 0 {
		return 0, false
	}
	return versions[len(versions)-1], true
}

// NextVersion returns the version a new save of name should use.
func (s *Store) NextVersion(name string) int {
	latest, _ := s.LatestVersion(name)
	return latest + 1
}

// List returns the metadata of the latest version of every artifact, sorted by name.
func (s *Store) List(ctx context.Context) ([]ArtifactMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.versions))
	for name := range s.versions {
		names = append(names, name)
	}
	sort.Strings(names)

	metas := make([]ArtifactMetadata, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		latest, _ := s.latest(name)
		sf, err := s.readFile(s.artifactPath(name, latest))
		if err != nil {
			continue
		}
		metas = append(metas, sf.Metadata)
	}
	return metas, nil
}

// Prune removes all but the newest keep versions of name.
func (s *Store) Prune(ctx context.Context, name string, keep int) error {
	if keep < 1 {
		keep = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	versions := s.versions[name]
	if len(versions) <= keep {
		return nil
	}

	cut := len(versions) - keep
	for _, v := range versions[:cut] {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.Remove(s.artifactPath(name, v)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s v%d: %w", name, v, err)
		}
	}
	s.versions[name] = append([]int(nil), versions[cut:]...)
	return nil
}

func (s *Store) artifactPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, artifactExt))
}

func containsVersion(versions []int, v int) bool {
	for _, existing := range versions {
		if existing == v {
			return true
		}
	}
	return false
}

// SimilarityIndexState is the persisted form of a user-based similarity index.
type SimilarityIndexState struct {
	// Users is the index's user registry in ascending order.
	Users []int64

	// Neighbors holds each user's nearest neighbours, most similar first.
	Neighbors map[int64][]NeighborState

	// History holds the items each user interacted with, with weights.
	History map[int64][]WeightedItemState

	NeighborCount int
	MinSimilarity float64
}

// NeighborState is one entry of a neighbour list.
type NeighborState struct {
	User       int64
	Similarity float64
}

// WeightedItemState is one interaction in a user history.
type WeightedItemState struct {
	Item   int64
	Weight float64
}

//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(SimilarityIndexState{})
	gob.Register(ArtifactMetadata{})
	gob.Register(storedFile{})
}
