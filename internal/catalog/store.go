// Package catalog provides read access to the hero list and meta statistics files,
// and the job that refreshes them from OpenDota.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/dom/dota-draft-assistant/internal/domain"
)

const (
	HeroesFile = "heroes.json"
	MetaFile   = "meta.json"

	lastUpdatedKey = "_last_updated"
)

// Snapshot is an immutable view of both catalog files.
type Snapshot struct {
	heroes      map[domain.HeroID]domain.Hero
	order       []domain.HeroID
	meta        map[domain.HeroID]domain.HeroMetaEntry
	lastUpdated string
}

// NewSnapshot builds a snapshot from already-decoded data. Hero order is the order of heroes.
func NewSnapshot(heroes []domain.Hero, meta map[domain.HeroID]domain.HeroMetaEntry, lastUpdated string) *Snapshot {
	s := &Snapshot{
		heroes:      make(map[domain.HeroID]domain.Hero, len(heroes)),
		order:       make([]domain.HeroID, 0, len(heroes)),
		meta:        make(map[domain.HeroID]domain.HeroMetaEntry, len(meta)),
		lastUpdated: lastUpdated,
	}
	for _, h := range heroes {
		id := domain.NormalizeHeroID(string(h.Name))
		if id == "" {
			continue
		}
		if _, dup := s.heroes[id]; dup {
			continue
		}
		h.Name = id
		s.heroes[id] = h
		s.order = append(s.order, id)
	}
	for id, entry := range meta {
		if domain.IsMetadataKey(string(id)) {
			continue
		}
		s.meta[domain.NormalizeHeroID(string(id))] = entry
	}
	return s
}

// IsValid reports whether the hero id is in the hero list. Comparison is case-insensitive.
func (s *Snapshot) IsValid(id domain.HeroID) bool {
	_, ok := s.heroes[domain.NormalizeHeroID(string(id))]
	return ok
}

// Hero returns the hero list entry for id.
func (s *Snapshot) Hero(id domain.HeroID) (domain.Hero, bool) {
	h, ok := s.heroes[domain.NormalizeHeroID(string(id))]
	return h, ok
}

// Meta returns the meta statistics for id.
func (s *Snapshot) Meta(id domain.HeroID) (domain.HeroMetaEntry, bool) {
	m, ok := s.meta[domain.NormalizeHeroID(string(id))]
	return m, ok
}

// Heroes returns the hero list in file order.
func (s *Snapshot) Heroes() []domain.Hero {
	out := make([]domain.Hero, len(s.order))
	for i, id := range s.order {
		out[i] = s.heroes[id]
	}
	return out
}

// Ordered returns the ids of heroes that have meta statistics, in hero list order.
// This is the iteration order used for ranking ties.
func (s *Snapshot) Ordered() []domain.HeroID {
	out := make([]domain.HeroID, 0, len(s.meta))
	for _, id := range s.order {
		if _, ok := s.meta[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of heroes in the hero list.
func (s *Snapshot) Len() int {
	return len(s.order)
}

// LastUpdated returns the meta file's timestamp entry, if any.
func (s *Snapshot) LastUpdated() string {
	return s.lastUpdated
}

// Store loads catalog snapshots from a directory. The parsed snapshot is memoized
// and rebuilt when either file's modification time or size changes, or after Invalidate.
type Store struct {
	dir string

	mu       sync.Mutex
	snapshot *Snapshot
	stamp    fileStamp
}

type fileStamp struct {
	heroesMod, metaMod   time.Time
	heroesSize, metaSize int64
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory the store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// Snapshot returns the current catalog. A missing or unreadable file yields
// domain.ErrCatalogUnavailable.
func (s *Store) Snapshot() (*Snapshot, error) {
	heroesPath := filepath.Join(s.dir, HeroesFile)
	metaPath := filepath.Join(s.dir, MetaFile)

	hi, err := os.Stat(heroesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found, run the catalog refresh: %v", domain.ErrCatalogUnavailable, heroesPath, err)
	}
	mi, err := os.Stat(metaPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found, run the catalog refresh: %v", domain.ErrCatalogUnavailable, metaPath, err)
	}
	stamp := fileStamp{
		heroesMod: hi.ModTime(), metaMod: mi.ModTime(),
		heroesSize: hi.Size(), metaSize: mi.Size(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot != nil && s.stamp == stamp {
		return s.snapshot, nil
	}

	heroes, err := readHeroes(heroesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	meta, lastUpdated, err := readMeta(metaPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	s.snapshot = NewSnapshot(heroes, meta, lastUpdated)
	s.stamp = stamp
	return s.snapshot, nil
}

// Invalidate drops the memoized snapshot so the next call re-reads both files.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.stamp = fileStamp{}
	s.mu.Unlock()
}

func readHeroes(path string) ([]domain.Hero, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var heroes []domain.Hero
	if err := json.Unmarshal(data, &heroes); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return heroes, nil
}

func readMeta(path string) (map[domain.HeroID]domain.HeroMetaEntry, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", path, err)
	}

	var lastUpdated string
	if v, ok := raw[lastUpdatedKey]; ok {
		_ = json.Unmarshal(v, &lastUpdated)
	}

	meta := make(map[domain.HeroID]domain.HeroMetaEntry, len(raw))
	for k, v := range raw {
		if domain.IsMetadataKey(k) {
			continue
		}
		var entry domain.HeroMetaEntry
		if err := json.Unmarshal(v, &entry); err != nil {
			return nil, "", fmt.Errorf("failed to decode meta entry %q: %w", k, err)
		}
		meta[domain.HeroID(k)] = entry
	}
	return meta, lastUpdated, nil
}
