package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trilha-app/trilha-engine/pkg/llm"
	"github.com/trilha-app/trilha-engine/pkg/models"
	"github.com/trilha-app/trilha-engine/pkg/prompts"
	"github.com/trilha-app/trilha-engine/pkg/repositories"
)

// ErrNoValidSkills indicates none of the caller-selected skill ids
// exist in the catalog.
var ErrNoValidSkills = errors.New("no valid skills selected")

// GenerateRoadmapInput is the validated request for a complete roadmap.
type GenerateRoadmapInput struct {
	UserID           uuid.UUID
	CareerGoal       string
	Experience       string
	SelectedSkillIDs []uuid.UUID
}

// RoadmapGenerationService runs the full synthesis pipeline: order and
// annotate the selected skills, enrich them with resources and
// milestones, resolve prerequisites and persist the result.
type RoadmapGenerationService interface {
	GenerateComplete(ctx context.Context, input GenerateRoadmapInput) (*models.Roadmap, error)
}

type roadmapGenerationService struct {
	client       llm.LLMClient // nil when no credentials are configured
	skillRepo    repositories.SkillRepository
	roadmapRepo  repositories.RoadmapRepository
	resourceRepo repositories.ResourceRepository
	reconciler   *SkillReconciler
	logger       *zap.Logger
}

// NewRoadmapGenerationService creates a new RoadmapGenerationService.
// A nil client degrades generation to a plain create in caller order.
func NewRoadmapGenerationService(
	client llm.LLMClient,
	skillRepo repositories.SkillRepository,
	roadmapRepo repositories.RoadmapRepository,
	resourceRepo repositories.ResourceRepository,
	logger *zap.Logger,
) RoadmapGenerationService {
	return &roadmapGenerationService{
		client:       client,
		skillRepo:    skillRepo,
		roadmapRepo:  roadmapRepo,
		resourceRepo: resourceRepo,
		reconciler:   NewSkillReconciler(logger),
		logger:       logger.Named("roadmap-generation"),
	}
}

var _ RoadmapGenerationService = (*roadmapGenerationService)(nil)

// orderedRoadmapPayload is the expected shape of the ordering call.
type orderedRoadmapPayload struct {
	Titulo string           `json:"titulo"`
	Skills []AnnotatedSkill `json:"skills"`
}

// enrichmentPayload is the expected shape of the batch enrichment call.
type enrichmentPayload struct {
	SkillsData []enrichedSkillData `json:"skills_data"`
}

type enrichedSkillData struct {
	SkillName  string             `json:"skill_name"`
	Resources  []enrichedResource `json:"resources"`
	Milestones []models.Milestone `json:"milestones"`
}

type enrichedResource struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Type     string `json:"type"`
	Platform string `json:"platform"`
	IsFree   *bool  `json:"is_free"`
}

func (s *roadmapGenerationService) GenerateComplete(ctx context.Context, input GenerateRoadmapInput) (*models.Roadmap, error) {
	selected, err := s.skillRepo.GetByIDs(ctx, input.SelectedSkillIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load selected skills: %w", err)
	}
	// The repository returns catalog order; link positions must follow
	// the order the caller picked the skills in.
	selected = orderBySelection(input.SelectedSkillIDs, selected)
	if len(selected) == 0 {
		return nil, ErrNoValidSkills
	}

	if s.client == nil {
		s.logger.Warn("Generative service not configured, creating basic roadmap",
			zap.String("career_goal", input.CareerGoal))
		return s.createBasic(ctx, input, selected)
	}

	organized, title, err := s.organizeSkills(ctx, input, selected)
	if err != nil {
		return nil, err
	}

	// Enrichment is best-effort: on failure the roadmap keeps its
	// ordering and ships without resources and milestones.
	s.enrichSkills(ctx, input.CareerGoal, organized)

	s.reconciler.ResolvePrerequisites(organized)

	if title == "" {
		title = "Trilha: " + input.CareerGoal
	}

	specs := make([]repositories.LinkSpec, len(organized))
	for i, o := range organized {
		specs[i] = repositories.LinkSpec{
			SkillID:              o.Skill.ID,
			Order:                o.Position,
			Milestones:           o.Milestones,
			LearningObjectives:   o.LearningObjectives,
			PrerequisiteSkillIDs: o.PrerequisiteIDs,
			EstimatedHours:       o.EstimatedHours,
		}
	}

	roadmapID, err := s.roadmapRepo.CreateWithLinks(ctx, &models.Roadmap{
		UserID:     input.UserID,
		Title:      title,
		CareerGoal: input.CareerGoal,
		Experience: input.Experience,
	}, specs)
	if err != nil {
		return nil, fmt.Errorf("failed to persist roadmap: %w", err)
	}

	tree, err := s.roadmapRepo.GetByID(ctx, roadmapID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created roadmap: %w", err)
	}

	s.attachResources(ctx, tree, organized)

	// Re-read so the response reflects exactly what was stored.
	tree, err = s.roadmapRepo.GetByID(ctx, roadmapID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload roadmap: %w", err)
	}

	s.logger.Info("Created roadmap",
		zap.String("roadmap_id", tree.ID.String()),
		zap.String("title", tree.Title),
		zap.Int("skills", len(tree.Skills)))

	return tree, nil
}

// orderBySelection re-sequences loaded skills to match the id order the
// caller selected them in. Unknown ids are already gone (the repository
// only returns existing rows); repeated ids keep their first position.
func orderBySelection(ids []uuid.UUID, skills []*models.Skill) []*models.Skill {
	byID := make(map[uuid.UUID]*models.Skill, len(skills))
	for _, skill := range skills {
		byID[skill.ID] = skill
	}

	ordered := make([]*models.Skill, 0, len(skills))
	for _, id := range ids {
		if skill, ok := byID[id]; ok {
			ordered = append(ordered, skill)
			delete(byID, id)
		}
	}
	return ordered
}

// createBasic persists the selected skills in caller order with no
// annotations. Used when no generative credentials are configured.
func (s *roadmapGenerationService) createBasic(ctx context.Context, input GenerateRoadmapInput, selected []*models.Skill) (*models.Roadmap, error) {
	specs := make([]repositories.LinkSpec, len(selected))
	for i, skill := range selected {
		specs[i] = repositories.LinkSpec{SkillID: skill.ID, Order: i + 1}
	}

	roadmapID, err := s.roadmapRepo.CreateWithLinks(ctx, &models.Roadmap{
		UserID:     input.UserID,
		Title:      "Trilha: " + input.CareerGoal,
		CareerGoal: input.CareerGoal,
		Experience: input.Experience,
	}, specs)
	if err != nil {
		return nil, fmt.Errorf("failed to persist roadmap: %w", err)
	}

	return s.roadmapRepo.GetByID(ctx, roadmapID)
}

// organizeSkills runs the ordering call and reconciles the proposed
// order against the selected skills.
func (s *roadmapGenerationService) organizeSkills(ctx context.Context, input GenerateRoadmapInput, selected []*models.Skill) ([]*OrganizedSkill, string, error) {
	raw, err := s.client.GenerateResponse(ctx,
		prompts.BuildOrderingPrompt(input.CareerGoal, input.Experience, selected),
		prompts.RoadmapSystemMessage,
		llm.GenerateOptions{SearchAugmentation: true})
	if err != nil {
		return nil, "", fmt.Errorf("ordering call failed: %w", err)
	}

	payload, err := llm.RecoverStructured[orderedRoadmapPayload](ctx, s.client, raw, "complete roadmap structure", s.logger)
	if err != nil {
		return nil, "", err
	}

	organized := s.reconciler.Reconcile(payload.Skills, selected)
	if len(organized) == 0 {
		return nil, "", errors.New("no proposed skill matched the selection")
	}

	s.logger.Info("Organized selected skills",
		zap.Int("count", len(organized)),
		zap.String("career_goal", input.CareerGoal))

	return organized, payload.Titulo, nil
}

// enrichSkills runs the batch enrichment call and merges resources and
// milestones into the organized entries. Any failure leaves the entries
// unenriched; skills absent from the response keep empty annotations.
func (s *roadmapGenerationService) enrichSkills(ctx context.Context, careerGoal string, organized []*OrganizedSkill) {
	names := make([]string, len(organized))
	for i, o := range organized {
		names[i] = o.Skill.Name
	}

	raw, err := s.client.GenerateResponse(ctx,
		prompts.BuildEnrichmentPrompt(careerGoal, names),
		prompts.EnrichmentSystemMessage,
		llm.GenerateOptions{SearchAugmentation: true})
	if err != nil {
		s.logger.Error("Batch enrichment call failed, continuing without resources and milestones", zap.Error(err))
		return
	}

	payload, err := llm.RecoverStructured[enrichmentPayload](ctx, s.client, raw, "batch resource and milestones data", s.logger)
	if err != nil {
		s.logger.Error("Batch enrichment unusable, continuing without resources and milestones", zap.Error(err))
		return
	}

	byName := make(map[string]enrichedSkillData, len(payload.SkillsData))
	for _, sd := range payload.SkillsData {
		byName[strings.ToLower(sd.SkillName)] = sd
	}

	enriched := 0
	for _, o := range organized {
		sd, ok := byName[strings.ToLower(o.Skill.Name)]
		if !ok {
			s.logger.Warn("No enrichment data for skill", zap.String("skill", o.Skill.Name))
			continue
		}

		o.Milestones = sd.Milestones
		o.Resources = make([]repositories.ResourceSpec, 0, len(sd.Resources))
		for _, res := range sd.Resources {
			resType := res.Type
			if resType == "" {
				resType = models.ResourceTypeArticle
			}
			isFree := true
			if res.IsFree != nil {
				isFree = *res.IsFree
			}
			o.Resources = append(o.Resources, repositories.ResourceSpec{
				Type:     resType,
				Title:    res.Title,
				URL:      res.URL,
				Platform: res.Platform,
				IsFree:   isFree,
			})
		}
		enriched++
	}

	s.logger.Info("Batch enrichment complete",
		zap.Int("enriched", enriched),
		zap.Int("total", len(organized)))
}

// attachResources stores enrichment resources against the link ids the
// create transaction generated. Per-skill failures are logged and the
// remaining skills continue.
func (s *roadmapGenerationService) attachResources(ctx context.Context, tree *models.Roadmap, organized []*OrganizedSkill) {
	linkBySkill := make(map[uuid.UUID]uuid.UUID, len(tree.Skills))
	for _, link := range tree.Skills {
		linkBySkill[link.SkillID] = link.ID
	}

	for _, o := range organized {
		if len(o.Resources) == 0 {
			continue
		}
		linkID, ok := linkBySkill[o.Skill.ID]
		if !ok {
			s.logger.Warn("No skill link found for skill, skipping resources",
				zap.String("skill", o.Skill.Name))
			continue
		}
		if err := s.resourceRepo.CreateForLink(ctx, linkID, o.Resources); err != nil {
			s.logger.Error("Failed to store resources for skill",
				zap.String("skill", o.Skill.Name), zap.Error(err))
		}
	}
}
