package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/trilha-app/trilha-engine/pkg/apperrors"
	"github.com/trilha-app/trilha-engine/pkg/models"
	"github.com/trilha-app/trilha-engine/pkg/services"
)

type mockRoadmapService struct {
	CreateFunc                 func(ctx context.Context, input services.CreateRoadmapInput) (*models.Roadmap, error)
	ListByUserFunc             func(ctx context.Context, userID uuid.UUID) ([]*models.Roadmap, error)
	GetFunc                    func(ctx context.Context, userID, roadmapID uuid.UUID) (*models.Roadmap, error)
	GetSkillLinksFunc          func(ctx context.Context, userID, roadmapID uuid.UUID) ([]*services.SkillLinkDetail, error)
	GetSkillLinkFunc           func(ctx context.Context, userID, roadmapID, linkID uuid.UUID) (*services.SkillLinkDetail, error)
	ToggleSkillProgressFunc    func(ctx context.Context, userID, roadmapID, linkID uuid.UUID) (*models.RoadmapSkill, error)
	SetMilestoneCompletionFunc func(ctx context.Context, userID, roadmapID, linkID uuid.UUID, level int, completed bool) (*services.SkillLinkDetail, error)
	DeleteFunc                 func(ctx context.Context, userID, roadmapID uuid.UUID) error

	CreateCalls int
	DeleteCalls int
}

func (m *mockRoadmapService) Create(ctx context.Context, input services.CreateRoadmapInput) (*models.Roadmap, error) {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, input)
	}
	return &models.Roadmap{}, nil
}

func (m *mockRoadmapService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Roadmap, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockRoadmapService) Get(ctx context.Context, userID, roadmapID uuid.UUID) (*models.Roadmap, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, roadmapID)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockRoadmapService) GetSkillLinks(ctx context.Context, userID, roadmapID uuid.UUID) ([]*services.SkillLinkDetail, error) {
	if m.GetSkillLinksFunc != nil {
		return m.GetSkillLinksFunc(ctx, userID, roadmapID)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockRoadmapService) GetSkillLink(ctx context.Context, userID, roadmapID, linkID uuid.UUID) (*services.SkillLinkDetail, error) {
	if m.GetSkillLinkFunc != nil {
		return m.GetSkillLinkFunc(ctx, userID, roadmapID, linkID)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockRoadmapService) ToggleSkillProgress(ctx context.Context, userID, roadmapID, linkID uuid.UUID) (*models.RoadmapSkill, error) {
	if m.ToggleSkillProgressFunc != nil {
		return m.ToggleSkillProgressFunc(ctx, userID, roadmapID, linkID)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockRoadmapService) SetMilestoneCompletion(ctx context.Context, userID, roadmapID, linkID uuid.UUID, level int, completed bool) (*services.SkillLinkDetail, error) {
	if m.SetMilestoneCompletionFunc != nil {
		return m.SetMilestoneCompletionFunc(ctx, userID, roadmapID, linkID, level, completed)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockRoadmapService) Delete(ctx context.Context, userID, roadmapID uuid.UUID) error {
	m.DeleteCalls++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, roadmapID)
	}
	return nil
}

type mockGenerationService struct {
	GenerateCompleteFunc  func(ctx context.Context, input services.GenerateRoadmapInput) (*models.Roadmap, error)
	GenerateCompleteCalls int
}

func (m *mockGenerationService) GenerateComplete(ctx context.Context, input services.GenerateRoadmapInput) (*models.Roadmap, error) {
	m.GenerateCompleteCalls++
	if m.GenerateCompleteFunc != nil {
		return m.GenerateCompleteFunc(ctx, input)
	}
	return &models.Roadmap{}, nil
}

type mockSuggestionService struct {
	SuggestFunc  func(ctx context.Context, careerGoal, experience string) (*services.SuggestionResult, error)
	SuggestCalls int
}

func (m *mockSuggestionService) Suggest(ctx context.Context, careerGoal, experience string) (*services.SuggestionResult, error) {
	m.SuggestCalls++
	if m.SuggestFunc != nil {
		return m.SuggestFunc(ctx, careerGoal, experience)
	}
	return &services.SuggestionResult{}, nil
}

var (
	_ services.RoadmapService           = (*mockRoadmapService)(nil)
	_ services.RoadmapGenerationService = (*mockGenerationService)(nil)
	_ services.SkillSuggestionService   = (*mockSuggestionService)(nil)
)
