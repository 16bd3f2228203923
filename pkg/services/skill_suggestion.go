package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trilha-app/trilha-engine/pkg/llm"
	"github.com/trilha-app/trilha-engine/pkg/models"
	"github.com/trilha-app/trilha-engine/pkg/prompts"
	"github.com/trilha-app/trilha-engine/pkg/repositories"
)

// SkillSuggestion is one recommended catalog skill for a career goal.
type SkillSuggestion struct {
	SkillID  uuid.UUID `json:"skill_id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Category string    `json:"category,omitempty"`
	Reason   string    `json:"reason,omitempty"`
}

// SuggestionResult carries the recommended skills and, on the degraded
// path, a default roadmap title.
type SuggestionResult struct {
	Title       string            `json:"title,omitempty"`
	Suggestions []SkillSuggestion `json:"suggestions"`
}

// SkillSuggestionService recommends catalog skills for a career goal.
type SkillSuggestionService interface {
	Suggest(ctx context.Context, careerGoal, experience string) (*SuggestionResult, error)
}

type skillSuggestionService struct {
	client    llm.LLMClient // nil when no credentials are configured
	skillRepo repositories.SkillRepository
	logger    *zap.Logger
}

// NewSkillSuggestionService creates a new SkillSuggestionService. A nil
// client degrades suggestions to the first catalog entries.
func NewSkillSuggestionService(client llm.LLMClient, skillRepo repositories.SkillRepository, logger *zap.Logger) SkillSuggestionService {
	return &skillSuggestionService{
		client:    client,
		skillRepo: skillRepo,
		logger:    logger.Named("skill-suggestion"),
	}
}

var _ SkillSuggestionService = (*skillSuggestionService)(nil)

type suggestionsPayload struct {
	Skills []struct {
		Name   string `json:"name"`
		Reason string `json:"reason"`
	} `json:"skills"`
}

func (s *skillSuggestionService) Suggest(ctx context.Context, careerGoal, experience string) (*SuggestionResult, error) {
	catalog, err := s.skillRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load skill catalog: %w", err)
	}

	if s.client == nil {
		s.logger.Warn("Generative service not configured, returning basic skill suggestions")
		return basicSuggestions(careerGoal, catalog), nil
	}

	raw, err := s.client.GenerateResponse(ctx,
		prompts.BuildSuggestionPrompt(careerGoal, experience, catalog),
		prompts.RoadmapSystemMessage,
		llm.GenerateOptions{SearchAugmentation: true})
	if err != nil {
		return nil, fmt.Errorf("suggestion call failed: %w", err)
	}

	payload, err := llm.RecoverStructured[suggestionsPayload](ctx, s.client, raw, "roadmap suggestions", s.logger)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*models.Skill, len(catalog))
	for _, skill := range catalog {
		byName[strings.ToLower(skill.Name)] = skill
	}

	suggestions := make([]SkillSuggestion, 0, len(payload.Skills))
	for _, proposed := range payload.Skills {
		matched, ok := byName[strings.ToLower(proposed.Name)]
		if !ok {
			s.logger.Warn("Dropping suggested skill not present in catalog", zap.String("name", proposed.Name))
			continue
		}
		suggestions = append(suggestions, SkillSuggestion{
			SkillID:  matched.ID,
			Name:     matched.Name,
			Type:     matched.Type,
			Category: matched.Category,
			Reason:   proposed.Reason,
		})
	}

	s.logger.Info("Generated skill suggestions",
		zap.Int("count", len(suggestions)),
		zap.String("career_goal", careerGoal))

	return &SuggestionResult{Suggestions: suggestions}, nil
}

// basicSuggestions returns the first ten catalog entries with a default
// title. The catalog is already sorted fundamentals-friendly (type,
// category, name).
func basicSuggestions(careerGoal string, catalog []*models.Skill) *SuggestionResult {
	limit := 10
	if len(catalog) < limit {
		limit = len(catalog)
	}

	suggestions := make([]SkillSuggestion, limit)
	for i, skill := range catalog[:limit] {
		suggestions[i] = SkillSuggestion{
			SkillID:  skill.ID,
			Name:     skill.Name,
			Type:     skill.Type,
			Category: skill.Category,
			Reason:   "Skill recomendada para beginners",
		}
	}

	return &SuggestionResult{
		Title:       "Trilha de Carreira: " + careerGoal,
		Suggestions: suggestions,
	}
}
