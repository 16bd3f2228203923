package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trilha-app/trilha-engine/pkg/apperrors"
	"github.com/trilha-app/trilha-engine/pkg/models"
	"github.com/trilha-app/trilha-engine/pkg/repositories"
)

// ErrSkillLinkNotFound indicates the roadmap exists but has no skill
// link with the requested id.
var ErrSkillLinkNotFound = errors.New("skill link not found in roadmap")

// ErrMilestoneNotFound indicates no milestone with the requested level
// exists on the skill link.
var ErrMilestoneNotFound = errors.New("milestone not found")

// Skill link progress status values surfaced to clients.
const (
	StatusConcluded = "concluido"
	StatusPending   = "pendente"
)

// PrerequisiteRef is a prerequisite link expanded to its skill name for
// display.
type PrerequisiteRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// SkillLinkDetail is a roadmap skill link with prerequisites expanded to
// {id, name} pairs and a display status derived from completion.
type SkillLinkDetail struct {
	ID                 uuid.UUID               `json:"id"`
	RoadmapID          uuid.UUID               `json:"roadmap_id"`
	SkillID            uuid.UUID               `json:"skill_id"`
	Skill              *models.Skill           `json:"skill"`
	Order              int                     `json:"order"`
	Status             string                  `json:"status"`
	IsConcluded        bool                    `json:"is_concluded"`
	ConclusionDate     *time.Time              `json:"conclusion_date,omitempty"`
	Milestones         []models.Milestone      `json:"milestones"`
	LearningObjectives string                  `json:"learning_objectives"`
	Prerequisites      []PrerequisiteRef       `json:"prerequisites"`
	EstimatedHours     int                     `json:"estimated_hours"`
	Resources          []*models.SkillResource `json:"resources"`
}

// CreateRoadmapInput is the validated request for a plain roadmap create.
type CreateRoadmapInput struct {
	UserID     uuid.UUID
	Title      string
	CareerGoal string
	Experience string
	SkillIDs   []uuid.UUID
}

// RoadmapService provides roadmap CRUD and per-skill progress tracking.
// Every operation taking a userID enforces that the user owns the
// roadmap, returning apperrors.ErrAccessDenied otherwise.
type RoadmapService interface {
	Create(ctx context.Context, input CreateRoadmapInput) (*models.Roadmap, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Roadmap, error)
	Get(ctx context.Context, userID, roadmapID uuid.UUID) (*models.Roadmap, error)
	GetSkillLinks(ctx context.Context, userID, roadmapID uuid.UUID) ([]*SkillLinkDetail, error)
	GetSkillLink(ctx context.Context, userID, roadmapID, linkID uuid.UUID) (*SkillLinkDetail, error)
	ToggleSkillProgress(ctx context.Context, userID, roadmapID, linkID uuid.UUID) (*models.RoadmapSkill, error)
	SetMilestoneCompletion(ctx context.Context, userID, roadmapID, linkID uuid.UUID, level int, completed bool) (*SkillLinkDetail, error)
	Delete(ctx context.Context, userID, roadmapID uuid.UUID) error
}

type roadmapService struct {
	roadmapRepo repositories.RoadmapRepository
	logger      *zap.Logger
}

// NewRoadmapService creates a new RoadmapService.
func NewRoadmapService(roadmapRepo repositories.RoadmapRepository, logger *zap.Logger) RoadmapService {
	return &roadmapService{
		roadmapRepo: roadmapRepo,
		logger:      logger.Named("roadmap-service"),
	}
}

var _ RoadmapService = (*roadmapService)(nil)

func (s *roadmapService) Create(ctx context.Context, input CreateRoadmapInput) (*models.Roadmap, error) {
	// A repeated skill id would collide with the link generated for its
	// first occurrence, so duplicates collapse first-wins.
	specs := make([]repositories.LinkSpec, 0, len(input.SkillIDs))
	seen := make(map[uuid.UUID]struct{}, len(input.SkillIDs))
	for _, skillID := range input.SkillIDs {
		if _, ok := seen[skillID]; ok {
			continue
		}
		seen[skillID] = struct{}{}
		specs = append(specs, repositories.LinkSpec{SkillID: skillID, Order: len(specs) + 1})
	}

	roadmapID, err := s.roadmapRepo.CreateWithLinks(ctx, &models.Roadmap{
		UserID:     input.UserID,
		Title:      input.Title,
		CareerGoal: input.CareerGoal,
		Experience: input.Experience,
	}, specs)
	if err != nil {
		return nil, fmt.Errorf("failed to create roadmap: %w", err)
	}

	return s.roadmapRepo.GetByID(ctx, roadmapID)
}

func (s *roadmapService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Roadmap, error) {
	return s.roadmapRepo.GetByUser(ctx, userID)
}

func (s *roadmapService) Get(ctx context.Context, userID, roadmapID uuid.UUID) (*models.Roadmap, error) {
	roadmap, err := s.roadmapRepo.GetByID(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	if roadmap.UserID != userID {
		return nil, apperrors.ErrAccessDenied
	}
	return roadmap, nil
}

func (s *roadmapService) GetSkillLinks(ctx context.Context, userID, roadmapID uuid.UUID) ([]*SkillLinkDetail, error) {
	roadmap, err := s.Get(ctx, userID, roadmapID)
	if err != nil {
		return nil, err
	}

	nameByLink := prerequisiteNames(roadmap.Skills)
	details := make([]*SkillLinkDetail, len(roadmap.Skills))
	for i, link := range roadmap.Skills {
		details[i] = skillLinkDetail(link, nameByLink)
	}
	return details, nil
}

func (s *roadmapService) GetSkillLink(ctx context.Context, userID, roadmapID, linkID uuid.UUID) (*SkillLinkDetail, error) {
	roadmap, err := s.Get(ctx, userID, roadmapID)
	if err != nil {
		return nil, err
	}

	nameByLink := prerequisiteNames(roadmap.Skills)
	for _, link := range roadmap.Skills {
		if link.ID == linkID {
			return skillLinkDetail(link, nameByLink), nil
		}
	}
	return nil, ErrSkillLinkNotFound
}

func (s *roadmapService) ToggleSkillProgress(ctx context.Context, userID, roadmapID, linkID uuid.UUID) (*models.RoadmapSkill, error) {
	if err := s.checkOwnership(ctx, userID, roadmapID); err != nil {
		return nil, err
	}

	link, err := s.roadmapRepo.GetSkillLink(ctx, roadmapID, linkID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrSkillLinkNotFound
		}
		return nil, err
	}

	concluded := !link.IsConcluded
	var conclusionDate *time.Time
	if concluded {
		now := time.Now()
		conclusionDate = &now
	}

	if err := s.roadmapRepo.UpdateSkillProgress(ctx, linkID, concluded, conclusionDate); err != nil {
		return nil, err
	}

	s.logger.Info("Toggled skill progress",
		zap.String("roadmap_id", roadmapID.String()),
		zap.String("link_id", linkID.String()),
		zap.Bool("is_concluded", concluded))

	return s.roadmapRepo.GetSkillLink(ctx, roadmapID, linkID)
}

func (s *roadmapService) SetMilestoneCompletion(ctx context.Context, userID, roadmapID, linkID uuid.UUID, level int, completed bool) (*SkillLinkDetail, error) {
	if err := s.checkOwnership(ctx, userID, roadmapID); err != nil {
		return nil, err
	}

	link, err := s.roadmapRepo.GetSkillLink(ctx, roadmapID, linkID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrSkillLinkNotFound
		}
		return nil, err
	}

	found := false
	for i := range link.Milestones {
		if link.Milestones[i].Level == level {
			link.Milestones[i].Completed = completed
			found = true
			break
		}
	}
	if !found {
		return nil, ErrMilestoneNotFound
	}

	if err := s.roadmapRepo.UpdateMilestones(ctx, linkID, link.Milestones); err != nil {
		return nil, err
	}

	return s.GetSkillLink(ctx, userID, roadmapID, linkID)
}

func (s *roadmapService) Delete(ctx context.Context, userID, roadmapID uuid.UUID) error {
	if err := s.checkOwnership(ctx, userID, roadmapID); err != nil {
		return err
	}

	if err := s.roadmapRepo.Delete(ctx, roadmapID); err != nil {
		return err
	}

	s.logger.Info("Deleted roadmap", zap.String("roadmap_id", roadmapID.String()))
	return nil
}

func (s *roadmapService) checkOwnership(ctx context.Context, userID, roadmapID uuid.UUID) error {
	ownerID, err := s.roadmapRepo.GetOwnerID(ctx, roadmapID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return apperrors.ErrAccessDenied
	}
	return nil
}

// prerequisiteNames maps link ids to skill names for prerequisite
// expansion. Prerequisites always reference links of the same roadmap,
// so the loaded tree is enough to resolve them.
func prerequisiteNames(links []*models.RoadmapSkill) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(links))
	for _, link := range links {
		if link.Skill != nil {
			names[link.ID] = link.Skill.Name
		}
	}
	return names
}

func skillLinkDetail(link *models.RoadmapSkill, nameByLink map[uuid.UUID]string) *SkillLinkDetail {
	status := StatusPending
	if link.IsConcluded {
		status = StatusConcluded
	}

	prereqs := make([]PrerequisiteRef, 0, len(link.Prerequisites))
	for _, id := range link.Prerequisites {
		if name, ok := nameByLink[id]; ok {
			prereqs = append(prereqs, PrerequisiteRef{ID: id, Name: name})
		}
	}

	return &SkillLinkDetail{
		ID:                 link.ID,
		RoadmapID:          link.RoadmapID,
		SkillID:            link.SkillID,
		Skill:              link.Skill,
		Order:              link.Order,
		Status:             status,
		IsConcluded:        link.IsConcluded,
		ConclusionDate:     link.ConclusionDate,
		Milestones:         link.Milestones,
		LearningObjectives: link.LearningObjectives,
		Prerequisites:      prereqs,
		EstimatedHours:     link.EstimatedHours,
		Resources:          link.Resources,
	}
}
