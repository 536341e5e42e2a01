package handlers

import (
	"net/http"

	"github.com/dom/dota-draft-assistant/internal/domain"
	"github.com/dom/dota-draft-assistant/internal/service"
)

type BuildHandler struct {
	buildService *service.BuildService
}

func NewBuildHandler(buildService *service.BuildService) *BuildHandler {
	return &BuildHandler{buildService: buildService}
}

type BuildOptionsRequest struct {
	UserHero        string   `json:"user_hero" validate:"required"`
	UserRole        string   `json:"user_role" validate:"required,oneof=mid safelane offlane support hard_support"`
	Aspect          string   `json:"aspect"`
	EnemyLaneHeroes []string `json:"enemy_lane_heroes" validate:"max=50"`
}

type BuildOptionsResponse struct {
	Builds []domain.BuildVariant `json:"builds"`
	Source domain.Source         `json:"source"`
}

type DetailedBuildRequest struct {
	UserHero        string   `json:"user_hero" validate:"required"`
	UserRole        string   `json:"user_role" validate:"required,oneof=mid safelane offlane support hard_support"`
	Aspect          string   `json:"aspect"`
	SelectedBuildID string   `json:"selected_build_id" validate:"required"`
	EnemyHeroes     []string `json:"enemy_heroes" validate:"max=50"`
	AllyHeroes      []string `json:"ally_heroes" validate:"max=50"`
}

func (h *BuildHandler) Options(w http.ResponseWriter, r *http.Request) {
	var req BuildOptionsRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.UserRole = domain.ParseRole(req.UserRole).String()
	if err := validateStruct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	variants, source := h.buildService.Options(r.Context(), service.BuildOptionsInput{
		Hero:            req.UserHero,
		Role:            domain.Role(req.UserRole),
		Aspect:          req.Aspect,
		EnemyLaneHeroes: req.EnemyLaneHeroes,
	})

	writeJSON(w, r, http.StatusOK, BuildOptionsResponse{Builds: variants, Source: source})
}

func (h *BuildHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	var req DetailedBuildRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.UserRole = domain.ParseRole(req.UserRole).String()
	if err := validateStruct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	build := h.buildService.Detailed(r.Context(), service.DetailedBuildInput{
		Hero:        req.UserHero,
		Role:        domain.Role(req.UserRole),
		Aspect:      req.Aspect,
		BuildID:     req.SelectedBuildID,
		EnemyHeroes: req.EnemyHeroes,
		AllyHeroes:  req.AllyHeroes,
	})

	writeJSON(w, r, http.StatusOK, build)
}
