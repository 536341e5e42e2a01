package service

import (
	"github.com/dom/dota-draft-assistant/internal/config"
	"github.com/dom/dota-draft-assistant/internal/oracle"
	"github.com/dom/dota-draft-assistant/internal/prompt"
	"github.com/dom/dota-draft-assistant/internal/repository"
)

type Services struct {
	Recommend *RecommendService
	Builds    *BuildService
	Catalog   *CatalogService
}

// Dependencies are the collaborators shared by every service.
type Dependencies struct {
	Catalog    CatalogSource
	Oracle     oracle.Oracle
	Composer   *prompt.Composer
	Validator  *oracle.Validator
	BuildCache repository.BuildCacheRepository
}

func NewServices(deps Dependencies, cfg *config.Config) *Services {
	return &Services{
		Recommend: NewRecommendService(deps.Catalog, deps.Oracle, deps.Composer, deps.Validator, cfg.Oracle.MaxTokens),
		Builds:    NewBuildService(deps.Catalog, deps.Oracle, deps.Composer, deps.Validator, deps.BuildCache),
		Catalog:   NewCatalogService(deps.Catalog),
	}
}
