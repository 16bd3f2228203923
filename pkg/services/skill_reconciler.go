package services

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trilha-app/trilha-engine/pkg/models"
	"github.com/trilha-app/trilha-engine/pkg/repositories"
)

// DefaultEstimatedHours is assumed when the model omits or zeroes the
// effort estimate for a skill.
const DefaultEstimatedHours = 20

// AnnotatedSkill is one entry of the model's proposed learning order.
// Skills and prerequisites are referenced by name only; reconciliation
// maps them back to catalog identifiers.
type AnnotatedSkill struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	EstimatedHours int      `json:"estimated_hours"`
	Prerequisites  []string `json:"prerequisites"`
}

// OrganizedSkill is a reconciled roadmap entry: a verified catalog skill
// at a 1-based position, carrying the model's annotations and, after
// enrichment, resources and milestones.
type OrganizedSkill struct {
	Skill              *models.Skill
	Position           int
	LearningObjectives string
	EstimatedHours     int
	PrerequisiteNames  []string
	PrerequisiteIDs    []uuid.UUID
	Milestones         []models.Milestone
	Resources          []repositories.ResourceSpec
}

// SkillReconciler maps model-proposed skill names back onto the catalog
// and resolves prerequisite names within a reconciled roadmap.
type SkillReconciler struct {
	logger *zap.Logger
}

// NewSkillReconciler creates a new SkillReconciler.
func NewSkillReconciler(logger *zap.Logger) *SkillReconciler {
	return &SkillReconciler{logger: logger.Named("skill-reconciler")}
}

// Reconcile matches annotated skills against the given catalog slice by
// case-insensitive exact name. Unmatched names are dropped with a
// warning; a skill mentioned twice keeps its first annotation. Positions
// are assigned over the surviving entries, so the set is always
// contiguous and 1-based.
func (r *SkillReconciler) Reconcile(annotated []AnnotatedSkill, catalog []*models.Skill) []*OrganizedSkill {
	byName := make(map[string]*models.Skill, len(catalog))
	for _, s := range catalog {
		byName[strings.ToLower(s.Name)] = s
	}

	seen := make(map[uuid.UUID]bool, len(annotated))
	var organized []*OrganizedSkill
	for _, a := range annotated {
		matched, ok := byName[strings.ToLower(a.Name)]
		if !ok {
			r.logger.Warn("Dropping skill not present in catalog", zap.String("name", a.Name))
			continue
		}
		if seen[matched.ID] {
			continue
		}
		seen[matched.ID] = true

		hours := a.EstimatedHours
		if hours <= 0 {
			hours = DefaultEstimatedHours
		}

		organized = append(organized, &OrganizedSkill{
			Skill:              matched,
			Position:           len(organized) + 1,
			LearningObjectives: a.Description,
			EstimatedHours:     hours,
			PrerequisiteNames:  a.Prerequisites,
		})
	}

	return organized
}

// ResolvePrerequisites translates each entry's prerequisite names into
// catalog skill ids, scoped to the skills actually in the roadmap. A
// prerequisite naming a skill outside the roadmap is dropped with a
// warning; the entry itself survives.
func (r *SkillReconciler) ResolvePrerequisites(skills []*OrganizedSkill) {
	idByName := make(map[string]uuid.UUID, len(skills))
	for _, s := range skills {
		idByName[strings.ToLower(s.Skill.Name)] = s.Skill.ID
	}

	for _, s := range skills {
		for _, name := range s.PrerequisiteNames {
			id, ok := idByName[strings.ToLower(name)]
			if !ok {
				r.logger.Warn("Dropping prerequisite naming a skill outside the roadmap",
					zap.String("skill", s.Skill.Name),
					zap.String("prerequisite", name))
				continue
			}
			if id == s.Skill.ID {
				continue
			}
			s.PrerequisiteIDs = append(s.PrerequisiteIDs, id)
		}
	}
}
