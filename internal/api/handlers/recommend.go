package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dom/dota-draft-assistant/internal/domain"
	"github.com/dom/dota-draft-assistant/internal/logging"
	"github.com/dom/dota-draft-assistant/internal/service"
)

const catalogUnavailableMessage = "Hero data is unavailable. Run the catalog refresh job (catalog refresh) and retry."

type RecommendHandler struct {
	recommendService *service.RecommendService
}

func NewRecommendHandler(recommendService *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{recommendService: recommendService}
}

type RecommendRequest struct {
	EnemyHeroes []string `json:"enemy_heroes"`
	AllyHeroes  []string `json:"ally_heroes"`
	UserRole    string   `json:"user_role" validate:"required,oneof=mid safelane offlane support hard_support"`
	UserHero    *string  `json:"user_hero"`
	Aspect      string   `json:"aspect"`
}

func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	useAI := true
	if raw := r.URL.Query().Get("use_openai"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "use_openai must be a boolean", http.StatusBadRequest)
			return
		}
		useAI = v
	}

	var req RecommendRequest
	if err := decodeRequest(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.recommendService.Recommend(r.Context(), service.DraftInput{
		EnemyHeroes: req.EnemyHeroes,
		AllyHeroes:  req.AllyHeroes,
		UserRole:    domain.ParseRole(req.UserRole),
		UserHero:    req.UserHero,
		Aspect:      req.Aspect,
	}, useAI)
	if err != nil {
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			http.Error(w, catalogUnavailableMessage, http.StatusServiceUnavailable)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("[recommend.Recommend] failed")
		http.Error(w, "Failed to build recommendation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// decodeRequest normalizes the role before validating so "Hard Support" is accepted.
func decodeRequest(r *http.Request, req *RecommendRequest) error {
	if err := decodeBody(r, req); err != nil {
		return err
	}
	req.UserRole = domain.ParseRole(req.UserRole).String()
	return validateStruct(req)
}
