package service

import (
	"github.com/dom/dota-draft-assistant/internal/domain"
)

type CatalogService struct {
	catalog CatalogSource
}

func NewCatalogService(catalog CatalogSource) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// ListHeroes returns the hero list in file order and the meta refresh timestamp.
func (s *CatalogService) ListHeroes() ([]domain.Hero, string, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return nil, "", err
	}
	return snap.Heroes(), snap.LastUpdated(), nil
}
