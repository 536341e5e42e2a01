package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"

	"github.com/dom/dota-draft-assistant/internal/domain"
)

// CatalogBuilder writes heroes.json and meta.json fixtures into a temp directory.
type CatalogBuilder struct {
	heroes      []domain.Hero
	meta        map[string]any
	lastUpdated string
}

func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{
		meta:        map[string]any{},
		lastUpdated: "2026-10-01T00:00:00Z",
	}
}

// WithHero adds a hero to the hero list and gives it a meta entry.
func (b *CatalogBuilder) WithHero(id string, winrate float64, roles ...string) *CatalogBuilder {
	return b.WithHeroMeta(id, domain.HeroMetaEntry{Roles: roles, Winrate: winrate})
}

// WithHeroMeta adds a hero with a full meta entry.
func (b *CatalogBuilder) WithHeroMeta(id string, entry domain.HeroMetaEntry) *CatalogBuilder {
	b.heroes = append(b.heroes, domain.Hero{Name: domain.HeroID(id), LocalizedName: id})
	if entry.Roles == nil {
		entry.Roles = []string{}
	}
	b.meta[id] = entry
	return b
}

// WithListedHero adds a hero to the hero list without meta statistics.
func (b *CatalogBuilder) WithListedHero(id string) *CatalogBuilder {
	b.heroes = append(b.heroes, domain.Hero{Name: domain.HeroID(id), LocalizedName: id})
	return b
}

// WithLastUpdated sets the reserved "_last_updated" entry.
func (b *CatalogBuilder) WithLastUpdated(ts string) *CatalogBuilder {
	b.lastUpdated = ts
	return b
}

// Write writes both files into a fresh temp directory and returns it.
func (b *CatalogBuilder) Write(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	b.WriteTo(t, dir)
	return dir
}

// WriteTo writes both files into dir.
func (b *CatalogBuilder) WriteTo(t *testing.T, dir string) {
	t.Helper()

	heroes := b.heroes
	if heroes == nil {
		heroes = []domain.Hero{}
	}
	writeJSONFile(t, filepath.Join(dir, "heroes.json"), heroes)

	meta := make(map[string]any, len(b.meta)+1)
	for k, v := range b.meta {
		meta[k] = v
	}
	if b.lastUpdated != "" {
		meta["_last_updated"] = b.lastUpdated
	}
	writeJSONFile(t, filepath.Join(dir, "meta.json"), meta)
}

func writeJSONFile(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// StandardCatalog is a small but realistic catalog used across service and API tests.
func StandardCatalog() *CatalogBuilder {
	return NewCatalogBuilder().
		WithHeroMeta("invoker", domain.HeroMetaEntry{
			Roles:         []string{"Carry", "Nuker", "Disabler", "Escape", "Pusher"},
			Winrate:       0.52,
			PopularItems:  []string{"hand_of_midas", "boots", "aghanims_scepter", "blink", "octarine_core", "refresher"},
			PopularSkills: []string{"quas", "exort", "quas", "wex", "exort", "invoke"},
			Talents:       map[string]string{"10": "+1 Forged Spirit"},
			GamePlan:      map[string]string{"early": "Farm mid and rotate after midas"},
			ItemNotes:     map[string]string{"blink": "Initiate tornado + meteor combos"},
		}).
		WithHero("zeus", 0.55, "Nuker").
		WithHero("lina", 0.50, "Support", "Carry", "Nuker", "Disabler").
		WithHero("phantom_assassin", 0.51, "Carry", "Escape").
		WithHero("juggernaut", 0.53, "Carry", "Pusher", "Escape").
		WithHero("crystal_maiden", 0.49, "Support", "Disabler", "Nuker").
		WithHero("anti_mage", 0.48, "Carry", "Escape", "Nuker").
		WithHero("axe", 0.54, "Initiator", "Durable", "Disabler").
		WithHero("lion", 0.50, "Support", "Disabler", "Nuker", "Initiator").
		WithHero("shadow_shaman", 0.52, "Support", "Pusher", "Disabler").
		WithHero("tidehunter", 0.51, "Initiator", "Durable", "Disabler").
		WithHero("mars", 0.47, "Carry", "Initiator", "Disabler", "Durable")
}
