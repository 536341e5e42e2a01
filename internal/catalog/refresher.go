package catalog

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/dom/dota-draft-assistant/internal/domain"
	"github.com/dom/dota-draft-assistant/internal/logging"
	"github.com/dom/dota-draft-assistant/internal/metrics"
)

const userAgent = "dota-draft-assistant/1.0 (catalog refresher)"

type openDotaHero struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	LocalizedName string   `json:"localized_name"`
	Roles         []string `json:"roles"`
}

type openDotaHeroStats struct {
	openDotaHero
	ProWin  int `json:"pro_win"`
	ProPick int `json:"pro_pick"`
	ProBan  int `json:"pro_ban"`
}

// RefreshResult summarizes one refresh run.
type RefreshResult struct {
	Heroes        int
	HeroesWritten bool
	MetaEntries   int
	LastUpdated   string
}

// Refresher fetches the hero list and hero statistics from OpenDota and
// atomically replaces the catalog files.
type Refresher struct {
	store      *Store
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func NewRefresher(store *Store, baseURL string, timeout time.Duration) *Refresher {
	return &Refresher{
		store:   store,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// FetchHeroes downloads the hero list.
func (r *Refresher) FetchHeroes(ctx context.Context) ([]domain.Hero, error) {
	var raw []openDotaHero
	if err := r.getJSON(ctx, "/heroes", &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch heroes: %w", err)
	}

	heroes := make([]domain.Hero, 0, len(raw))
	for _, h := range raw {
		heroes = append(heroes, domain.Hero{
			Name:          domain.NormalizeHeroID(h.Name),
			LocalizedName: h.LocalizedName,
		})
	}
	return heroes, nil
}

// FetchMeta downloads hero statistics and converts them into meta entries.
func (r *Refresher) FetchMeta(ctx context.Context) (map[domain.HeroID]domain.HeroMetaEntry, error) {
	var raw []openDotaHeroStats
	if err := r.getJSON(ctx, "/heroStats", &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch hero stats: %w", err)
	}
	return transformHeroStats(raw), nil
}

// transformHeroStats converts OpenDota hero stats into meta entries.
func transformHeroStats(raw []openDotaHeroStats) map[domain.HeroID]domain.HeroMetaEntry {
	meta := make(map[domain.HeroID]domain.HeroMetaEntry, len(raw))
	for _, h := range raw {
		id := domain.NormalizeHeroID(h.Name)
		localized := h.LocalizedName
		if localized == "" {
			localized = string(id)
		}
		var winrate float64
		if h.ProPick > 0 {
			winrate = round3(float64(h.ProWin) / float64(h.ProPick))
		}
		roles := h.Roles
		if roles == nil {
			roles = []string{}
		}
		meta[id] = domain.HeroMetaEntry{
			LocalizedName: localized,
			Roles:         roles,
			Winrate:       winrate,
			PickRate:      round3(float64(h.ProPick) / 1000),
			BanRate:       round3(float64(h.ProBan) / 1000),
		}
	}
	return meta
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// RefreshHeroes writes heroes.json. An existing file is kept unless force is set.
func (r *Refresher) RefreshHeroes(ctx context.Context, force bool) (int, bool, error) {
	path := filepath.Join(r.store.Dir(), HeroesFile)
	if _, err := os.Stat(path); err == nil && !force {
		logging.Info().Str("path", path).Msg("hero list exists, skipping (use force to overwrite)")
		return 0, false, nil
	}

	heroes, err := r.FetchHeroes(ctx)
	if err != nil {
		return 0, false, err
	}
	if len(heroes) == 0 {
		return 0, false, fmt.Errorf("OpenDota returned an empty hero list")
	}
	if err := writeJSONAtomic(path, heroes); err != nil {
		return 0, false, err
	}
	r.store.Invalidate()
	return len(heroes), true, nil
}

// RefreshMeta overwrites meta.json with fresh statistics.
func (r *Refresher) RefreshMeta(ctx context.Context) (int, string, error) {
	meta, err := r.FetchMeta(ctx)
	if err != nil {
		return 0, "", err
	}
	stamp, err := r.writeMeta(meta)
	if err != nil {
		return 0, "", err
	}
	r.store.Invalidate()
	return len(meta), stamp, nil
}

// Refresh fetches both data sets concurrently and replaces the files.
// Nothing is written unless both fetches succeed.
func (r *Refresher) Refresh(ctx context.Context, force bool) (RefreshResult, error) {
	var (
		heroes []domain.Hero
		meta   map[domain.HeroID]domain.HeroMetaEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		heroes, err = r.FetchHeroes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		meta, err = r.FetchMeta(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.CatalogRefreshTotal.WithLabelValues("error").Inc()
		return RefreshResult{}, err
	}

	result := RefreshResult{Heroes: len(heroes), MetaEntries: len(meta)}

	heroesPath := filepath.Join(r.store.Dir(), HeroesFile)
	_, statErr := os.Stat(heroesPath)
	if len(heroes) > 0 && (force || statErr != nil) {
		if err := writeJSONAtomic(heroesPath, heroes); err != nil {
			metrics.CatalogRefreshTotal.WithLabelValues("error").Inc()
			return result, err
		}
		result.HeroesWritten = true
	}

	stamp, err := r.writeMeta(meta)
	if err != nil {
		metrics.CatalogRefreshTotal.WithLabelValues("error").Inc()
		return result, err
	}
	result.LastUpdated = stamp

	r.store.Invalidate()
	metrics.CatalogRefreshTotal.WithLabelValues("success").Inc()
	return result, nil
}

func (r *Refresher) writeMeta(meta map[domain.HeroID]domain.HeroMetaEntry) (string, error) {
	doc := make(map[string]any, len(meta)+1)
	for id, entry := range meta {
		doc[string(id)] = entry
	}
	stamp := r.now().UTC().Format(time.RFC3339)
	doc[lastUpdatedKey] = stamp

	if err := writeJSONAtomic(filepath.Join(r.store.Dir(), MetaFile), doc); err != nil {
		return "", err
	}
	return stamp, nil
}

func (r *Refresher) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// writeJSONAtomic writes v next to path and renames it into place, so readers
// never observe a partially written file.
func writeJSONAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
