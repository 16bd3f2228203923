package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trilha-app/trilha-engine/pkg/models"
)

func makeSkill(name string) *models.Skill {
	return &models.Skill{ID: uuid.New(), Name: name, Type: models.SkillTypeHard}
}

func TestReconcile_CaseInsensitiveMatch(t *testing.T) {
	r := NewSkillReconciler(zap.NewNop())
	js := makeSkill("JavaScript")
	react := makeSkill("React")

	organized := r.Reconcile([]AnnotatedSkill{
		{Name: "javascript", Description: "base da web", EstimatedHours: 30},
		{Name: "REACT", Description: "UI declarativa"},
	}, []*models.Skill{js, react})

	require.Len(t, organized, 2)
	assert.Equal(t, js.ID, organized[0].Skill.ID)
	assert.Equal(t, 1, organized[0].Position)
	assert.Equal(t, 30, organized[0].EstimatedHours)
	assert.Equal(t, "base da web", organized[0].LearningObjectives)
	assert.Equal(t, react.ID, organized[1].Skill.ID)
	assert.Equal(t, 2, organized[1].Position)
}

func TestReconcile_DropsUnknownAndKeepsPositionsContiguous(t *testing.T) {
	r := NewSkillReconciler(zap.NewNop())
	js := makeSkill("JavaScript")
	react := makeSkill("React")

	organized := r.Reconcile([]AnnotatedSkill{
		{Name: "JavaScript"},
		{Name: "Quantum Computing"}, // not in catalog
		{Name: "React"},
	}, []*models.Skill{js, react})

	require.Len(t, organized, 2)
	assert.Equal(t, 1, organized[0].Position)
	assert.Equal(t, 2, organized[1].Position)
	assert.Equal(t, "React", organized[1].Skill.Name)
}

func TestReconcile_FirstAnnotationWinsOnDuplicate(t *testing.T) {
	r := NewSkillReconciler(zap.NewNop())
	js := makeSkill("JavaScript")

	organized := r.Reconcile([]AnnotatedSkill{
		{Name: "JavaScript", EstimatedHours: 40, Description: "primeira"},
		{Name: "javascript", EstimatedHours: 5, Description: "segunda"},
	}, []*models.Skill{js})

	require.Len(t, organized, 1)
	assert.Equal(t, 40, organized[0].EstimatedHours)
	assert.Equal(t, "primeira", organized[0].LearningObjectives)
}

func TestReconcile_DefaultEstimatedHours(t *testing.T) {
	r := NewSkillReconciler(zap.NewNop())
	js := makeSkill("JavaScript")

	organized := r.Reconcile([]AnnotatedSkill{{Name: "JavaScript"}}, []*models.Skill{js})

	require.Len(t, organized, 1)
	assert.Equal(t, DefaultEstimatedHours, organized[0].EstimatedHours)
}

func TestResolvePrerequisites_ScopedToRoadmap(t *testing.T) {
	r := NewSkillReconciler(zap.NewNop())
	js := makeSkill("JavaScript")
	react := makeSkill("React")

	organized := r.Reconcile([]AnnotatedSkill{
		{Name: "JavaScript"},
		{Name: "React", Prerequisites: []string{"javascript", "HTML"}}, // HTML not in roadmap
	}, []*models.Skill{js, react})
	require.Len(t, organized, 2)

	r.ResolvePrerequisites(organized)

	assert.Empty(t, organized[0].PrerequisiteIDs)
	require.Len(t, organized[1].PrerequisiteIDs, 1)
	assert.Equal(t, js.ID, organized[1].PrerequisiteIDs[0])
}

func TestResolvePrerequisites_SkipsSelfReference(t *testing.T) {
	r := NewSkillReconciler(zap.NewNop())
	js := makeSkill("JavaScript")

	organized := r.Reconcile([]AnnotatedSkill{
		{Name: "JavaScript", Prerequisites: []string{"JavaScript"}},
	}, []*models.Skill{js})
	require.Len(t, organized, 1)

	r.ResolvePrerequisites(organized)

	assert.Empty(t, organized[0].PrerequisiteIDs)
}
