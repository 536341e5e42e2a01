package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dom/dota-draft-assistant/internal/catalog"
	"github.com/dom/dota-draft-assistant/internal/domain"
	"github.com/dom/dota-draft-assistant/internal/logging"
	"github.com/dom/dota-draft-assistant/internal/metrics"
	"github.com/dom/dota-draft-assistant/internal/oracle"
	"github.com/dom/dota-draft-assistant/internal/prompt"
)

// CatalogSource provides the current catalog snapshot.
type CatalogSource interface {
	Snapshot() (*catalog.Snapshot, error)
}

var _ CatalogSource = (*catalog.Store)(nil)

var errNoUsableContent = errors.New("answer has no usable content")

type RecommendService struct {
	catalog   CatalogSource
	oracle    oracle.Oracle
	composer  *prompt.Composer
	validator *oracle.Validator
	maxTokens int
}

func NewRecommendService(catalog CatalogSource, o oracle.Oracle, composer *prompt.Composer, validator *oracle.Validator, maxTokens int) *RecommendService {
	return &RecommendService{
		catalog:   catalog,
		oracle:    o,
		composer:  composer,
		validator: validator,
		maxTokens: maxTokens,
	}
}

// Recommend resolves a draft into a recommendation. The oracle is only consulted
// when useAI is set; any oracle failure falls back to the meta ranking. The only
// error returned is a wrapped domain.ErrCatalogUnavailable.
func (s *RecommendService) Recommend(ctx context.Context, in DraftInput, useAI bool) (*domain.RecommendationResult, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("catalog unavailable, cannot recommend")
		return nil, err
	}

	draft, warnings := SanitizeDraft(in, snap)

	var result *domain.RecommendationResult
	if useAI {
		result = s.recommendWithAI(ctx, draft, snap)
	}
	if result == nil {
		result = s.recommendWithMeta(draft, snap)
	}

	result.Warnings = append(append(make([]string, 0, len(warnings)+len(result.Warnings)), warnings...), result.Warnings...)
	metrics.ResultsBySource.WithLabelValues("recommend", string(result.Source)).Inc()

	logging.Ctx(ctx).Info().
		Str("role", draft.UserRole.String()).
		Bool("use_ai", useAI).
		Str("source", string(result.Source)).
		Int("suggestions", len(result.SuggestedHeroes)).
		Int("warnings", len(result.Warnings)).
		Msg("recommendation resolved")
	return result, nil
}

// recommendWithAI returns nil on any failure.
func (s *RecommendService) recommendWithAI(ctx context.Context, draft domain.Draft, snap *catalog.Snapshot) *domain.RecommendationResult {
	text, ok := s.oracle.Complete(ctx, s.composer.SystemPrompt(), s.composer.BuildRecommendPrompt(draft), s.maxTokens)
	if !ok {
		return nil
	}

	answer, err := oracle.DecodeAnswer[domain.RecommendationResult](s.validator, oracle.DefRecommendation, text, nil)
	if err == nil {
		var result *domain.RecommendationResult
		result, err = assembleAIResult(answer, draft, snap)
		if err == nil {
			return result
		}
	}

	logRejection(logging.Ctx(ctx), oracle.DefRecommendation, err, text)
	return nil
}

// assembleAIResult keeps only what the draft allows: suggested heroes must exist
// in the catalog and must not be taken already.
func assembleAIResult(answer domain.RecommendationResult, draft domain.Draft, snap *catalog.Snapshot) (*domain.RecommendationResult, error) {
	result := domain.NewRecommendationResult(domain.SourceAI)
	result.RecommendedAspect = answer.RecommendedAspect
	result.LaneOpponents = draft.LaneOpponents()

	overrideItems(&result.StartingItems, answer.StartingItems)
	overrideItems(&result.BuildEasy, answer.BuildEasy)
	overrideItems(&result.BuildEven, answer.BuildEven)
	overrideItems(&result.BuildHard, answer.BuildHard)
	result.Warnings = append(result.Warnings, answer.Warnings...)

	excluded := draft.Excluded()
	if !draft.HasUserHero() {
		for _, sug := range answer.SuggestedHeroes {
			id := domain.NormalizeHeroID(sug.Name.String())
			if !snap.IsValid(id) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("Suggested hero '%s' is not in the hero list and was dropped.", sug.Name))
				continue
			}
			if _, taken := excluded[id]; taken {
				continue
			}
			sug.Name = id
			result.SuggestedHeroes = append(result.SuggestedHeroes, sug)
			excluded[id] = struct{}{}
			if len(result.SuggestedHeroes) == maxSuggestions {
				break
			}
		}
		if len(result.SuggestedHeroes) == 0 {
			return nil, fmt.Errorf("%w: no valid suggested heroes", errNoUsableContent)
		}
	}

	for _, plan := range answer.Builds {
		id := domain.NormalizeHeroID(plan.Name.String())
		if draft.HasUserHero() {
			if id != *draft.UserHero {
				continue
			}
		} else if !snap.IsValid(id) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Build for hero '%s' is not in the hero list and was dropped.", plan.Name))
			continue
		}
		plan.Name = id
		result.Builds = append(result.Builds, plan)
	}
	if draft.HasUserHero() && len(result.Builds) == 0 {
		return nil, fmt.Errorf("%w: no build for %s", errNoUsableContent, *draft.UserHero)
	}

	return result, nil
}

func overrideItems(dst *[]string, items []string) {
	if len(items) > 0 {
		*dst = append([]string(nil), items...)
	}
}

func (s *RecommendService) recommendWithMeta(draft domain.Draft, snap *catalog.Snapshot) *domain.RecommendationResult {
	result := domain.NewRecommendationResult(domain.SourceMeta)
	result.LaneOpponents = draft.LaneOpponents()

	switch {
	case draft.HasUserHero():
		result.Source = domain.SourceFallback
		result.Builds = append(result.Builds, HeroBuildPlan(*draft.UserHero, snap))

	case !draft.UserRole.IsValid():
		result.Source = domain.SourceFallback
		result.Warnings = append(result.Warnings, fmt.Sprintf("Role '%s' is not recognized; no heroes could be suggested.", draft.UserRole))

	default:
		excluded := draft.Excluded()
		result.SuggestedHeroes = RecommendByMeta(draft.UserRole, excluded, snap)
		if len(result.SuggestedHeroes) == 0 {
			result.Source = domain.SourceFallback
			result.Warnings = append(result.Warnings, fmt.Sprintf("No heroes matched the %s role in the meta data; ranking all heroes by winrate.", draft.UserRole.DisplayName()))
			result.SuggestedHeroes = RankByWinrate(excluded, snap)
		}
	}

	return result
}

// logRejection logs a discarded oracle answer. Routine shape problems stay at
// info with the payload at debug; content that parsed but was unusable is a warning.
func logRejection(log *zerolog.Logger, kind string, err error, raw string) {
	reason := "invalid_content"
	switch {
	case errors.Is(err, oracle.ErrNullAnswer):
		reason = "null_answer"
	case errors.Is(err, oracle.ErrMalformedJSON):
		reason = "malformed_json"
	case errors.Is(err, oracle.ErrSchemaRejected):
		reason = "schema_rejected"
	}
	metrics.OracleRejectionsTotal.WithLabelValues(kind, reason).Inc()

	if reason == "invalid_content" {
		log.Warn().Err(err).Str("kind", kind).Msg("oracle answer unusable, falling back")
	} else {
		log.Info().Err(err).Str("kind", kind).Str("reason", reason).Msg("oracle answer rejected, falling back")
	}
	log.Debug().Str("kind", kind).Str("payload", raw).Msg("rejected oracle payload")
}
