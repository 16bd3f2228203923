package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trilha-app/trilha-engine/pkg/apperrors"
	"github.com/trilha-app/trilha-engine/pkg/models"
	"github.com/trilha-app/trilha-engine/pkg/repositories"
)

type mockSkillRepository struct {
	GetAllFunc    func(ctx context.Context) ([]*models.Skill, error)
	GetByIDFunc   func(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	GetByIDsFunc  func(ctx context.Context, ids []uuid.UUID) ([]*models.Skill, error)
	GetAllCalls   int
	GetByIDsCalls int
}

func (m *mockSkillRepository) GetAll(ctx context.Context) ([]*models.Skill, error) {
	m.GetAllCalls++
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockSkillRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockSkillRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Skill, error) {
	m.GetByIDsCalls++
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return nil, nil
}

type mockRoadmapRepository struct {
	CreateWithLinksFunc     func(ctx context.Context, roadmap *models.Roadmap, specs []repositories.LinkSpec) (uuid.UUID, error)
	GetByIDFunc             func(ctx context.Context, roadmapID uuid.UUID) (*models.Roadmap, error)
	GetByUserFunc           func(ctx context.Context, userID uuid.UUID) ([]*models.Roadmap, error)
	GetOwnerIDFunc          func(ctx context.Context, roadmapID uuid.UUID) (uuid.UUID, error)
	GetSkillLinkFunc        func(ctx context.Context, roadmapID, linkID uuid.UUID) (*models.RoadmapSkill, error)
	UpdateSkillProgressFunc func(ctx context.Context, linkID uuid.UUID, isConcluded bool, conclusionDate *time.Time) error
	UpdateMilestonesFunc    func(ctx context.Context, linkID uuid.UUID, milestones []models.Milestone) error
	DeleteFunc              func(ctx context.Context, roadmapID uuid.UUID) error

	CreateWithLinksCalls int
	DeleteCalls          int

	// Captured arguments from the last CreateWithLinks call.
	CreatedRoadmap *models.Roadmap
	CreatedSpecs   []repositories.LinkSpec
}

func (m *mockRoadmapRepository) CreateWithLinks(ctx context.Context, roadmap *models.Roadmap, specs []repositories.LinkSpec) (uuid.UUID, error) {
	m.CreateWithLinksCalls++
	m.CreatedRoadmap = roadmap
	m.CreatedSpecs = specs
	if m.CreateWithLinksFunc != nil {
		return m.CreateWithLinksFunc(ctx, roadmap, specs)
	}
	return uuid.New(), nil
}

func (m *mockRoadmapRepository) GetByID(ctx context.Context, roadmapID uuid.UUID) (*models.Roadmap, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, roadmapID)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockRoadmapRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.Roadmap, error) {
	if m.GetByUserFunc != nil {
		return m.GetByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockRoadmapRepository) GetOwnerID(ctx context.Context, roadmapID uuid.UUID) (uuid.UUID, error) {
	if m.GetOwnerIDFunc != nil {
		return m.GetOwnerIDFunc(ctx, roadmapID)
	}
	return uuid.Nil, apperrors.ErrNotFound
}

func (m *mockRoadmapRepository) GetSkillLink(ctx context.Context, roadmapID, linkID uuid.UUID) (*models.RoadmapSkill, error) {
	if m.GetSkillLinkFunc != nil {
		return m.GetSkillLinkFunc(ctx, roadmapID, linkID)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockRoadmapRepository) UpdateSkillProgress(ctx context.Context, linkID uuid.UUID, isConcluded bool, conclusionDate *time.Time) error {
	if m.UpdateSkillProgressFunc != nil {
		return m.UpdateSkillProgressFunc(ctx, linkID, isConcluded, conclusionDate)
	}
	return nil
}

func (m *mockRoadmapRepository) UpdateMilestones(ctx context.Context, linkID uuid.UUID, milestones []models.Milestone) error {
	if m.UpdateMilestonesFunc != nil {
		return m.UpdateMilestonesFunc(ctx, linkID, milestones)
	}
	return nil
}

func (m *mockRoadmapRepository) Delete(ctx context.Context, roadmapID uuid.UUID) error {
	m.DeleteCalls++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, roadmapID)
	}
	return nil
}

type mockResourceRepository struct {
	CreateForLinkFunc  func(ctx context.Context, linkID uuid.UUID, specs []repositories.ResourceSpec) error
	CreateForLinkCalls int

	// Captured per-link specs from every CreateForLink call.
	CreatedResources map[uuid.UUID][]repositories.ResourceSpec
}

func (m *mockResourceRepository) CreateForLink(ctx context.Context, linkID uuid.UUID, specs []repositories.ResourceSpec) error {
	m.CreateForLinkCalls++
	if m.CreatedResources == nil {
		m.CreatedResources = make(map[uuid.UUID][]repositories.ResourceSpec)
	}
	m.CreatedResources[linkID] = specs
	if m.CreateForLinkFunc != nil {
		return m.CreateForLinkFunc(ctx, linkID, specs)
	}
	return nil
}

var (
	_ repositories.SkillRepository    = (*mockSkillRepository)(nil)
	_ repositories.RoadmapRepository  = (*mockRoadmapRepository)(nil)
	_ repositories.ResourceRepository = (*mockResourceRepository)(nil)
)
