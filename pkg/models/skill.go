package models

import (
	"time"

	"github.com/google/uuid"
)

// Skill type values
const (
	SkillTypeHard = "hard"
	SkillTypeSoft = "soft"
)

// Skill is an immutable catalog entry. Rows are created by the seeding
// process and never mutated by the roadmap pipeline.
type Skill struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"` // "hard" or "soft"
	Category    string    `json:"category,omitempty"`
}

// Resource type values for skill resources.
const (
	ResourceTypeCourse        = "course"
	ResourceTypeArticle       = "article"
	ResourceTypeVideo         = "video"
	ResourceTypeDocumentation = "documentation"
	ResourceTypeTutorial      = "tutorial"
	ResourceTypeProject       = "project"
	ResourceTypeExercise      = "exercise"
	ResourceTypePodcast       = "podcast"
)

// SkillResource is a learning resource attached to a roadmap skill link.
// Inserts are idempotent on (roadmap_skill_id, title, url) because the
// generative service's two calls can each mention the same resource.
type SkillResource struct {
	ID             uuid.UUID `json:"id"`
	RoadmapSkillID uuid.UUID `json:"roadmap_skill_id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	Platform       string    `json:"platform,omitempty"`
	IsFree         bool      `json:"is_free"`
	DateAdded      time.Time `json:"date_added"`
}
