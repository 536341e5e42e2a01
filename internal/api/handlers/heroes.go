package handlers

import (
	"errors"
	"net/http"

	"github.com/dom/dota-draft-assistant/internal/domain"
	"github.com/dom/dota-draft-assistant/internal/logging"
	"github.com/dom/dota-draft-assistant/internal/service"
)

type HeroHandler struct {
	catalogService *service.CatalogService
}

func NewHeroHandler(catalogService *service.CatalogService) *HeroHandler {
	return &HeroHandler{catalogService: catalogService}
}

type HeroesResponse struct {
	Heroes      []domain.Hero `json:"heroes"`
	LastUpdated string        `json:"last_updated,omitempty"`
}

func (h *HeroHandler) List(w http.ResponseWriter, r *http.Request) {
	heroes, lastUpdated, err := h.catalogService.ListHeroes()
	if err != nil {
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			http.Error(w, catalogUnavailableMessage, http.StatusServiceUnavailable)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("[heroes.List] failed")
		http.Error(w, "Failed to list heroes", http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, HeroesResponse{Heroes: heroes, LastUpdated: lastUpdated})
}
