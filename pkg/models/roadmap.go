package models

import (
	"time"

	"github.com/google/uuid"
)

// Milestone is a progressive learning marker embedded in a roadmap skill
// link (stored as JSONB, not a standalone row). Levels are 1-based and
// increase across the list. Completed always starts false at creation.
type Milestone struct {
	Level      int      `json:"level"`
	Title      string   `json:"title"`
	Objectives []string `json:"objectives"`
	Completed  bool     `json:"completed"`
}

// RoadmapSkill joins a roadmap to a catalog skill with ordering and
// progress metadata. Order is 1-based and unique per roadmap.
// Prerequisites holds ids of other RoadmapSkill rows in the same roadmap.
type RoadmapSkill struct {
	ID                 uuid.UUID        `json:"id"`
	RoadmapID          uuid.UUID        `json:"roadmap_id"`
	SkillID            uuid.UUID        `json:"skill_id"`
	Skill              *Skill           `json:"skill,omitempty"`
	Order              int              `json:"order"`
	IsConcluded        bool             `json:"is_concluded"`
	ConclusionDate     *time.Time       `json:"conclusion_date,omitempty"`
	Milestones         []Milestone      `json:"milestones"`
	LearningObjectives string           `json:"learning_objectives"`
	Prerequisites      []uuid.UUID      `json:"prerequisites"`
	EstimatedHours     int              `json:"estimated_hours"`
	Resources          []*SkillResource `json:"resources,omitempty"`
}

// Roadmap owns an ordered collection of RoadmapSkill links. The
// percentual progress counter is maintained by a database trigger.
type Roadmap struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             uuid.UUID       `json:"user_id"`
	Title              string          `json:"title"`
	CareerGoal         string          `json:"career_goal"`
	Experience         string          `json:"experience"`
	PercentualProgress float64         `json:"percentual_progress"`
	CreationDate       time.Time       `json:"creation_date"`
	Skills             []*RoadmapSkill `json:"skills,omitempty"`
}
