package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/trilha-app/trilha-engine/pkg/apperrors"
	"github.com/trilha-app/trilha-engine/pkg/database"
	"github.com/trilha-app/trilha-engine/pkg/models"
)

// LinkSpec describes one roadmap skill link to be created. Prerequisite
// skill ids reference catalog skills that must also appear in the specs
// of the same create call; they are translated to the generated link ids
// inside the transaction.
type LinkSpec struct {
	SkillID              uuid.UUID
	Order                int
	Milestones           []models.Milestone
	LearningObjectives   string
	PrerequisiteSkillIDs []uuid.UUID
	EstimatedHours       int
}

// RoadmapRepository provides data access for roadmaps and their skill links.
type RoadmapRepository interface {
	// CreateWithLinks creates the roadmap row and all its skill links in
	// one transaction and returns the new roadmap id. Callers re-read the
	// assembled tree with GetByID so ids come from the store.
	CreateWithLinks(ctx context.Context, roadmap *models.Roadmap, specs []LinkSpec) (uuid.UUID, error)
	GetByID(ctx context.Context, roadmapID uuid.UUID) (*models.Roadmap, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.Roadmap, error)
	GetOwnerID(ctx context.Context, roadmapID uuid.UUID) (uuid.UUID, error)
	GetSkillLink(ctx context.Context, roadmapID, linkID uuid.UUID) (*models.RoadmapSkill, error)
	UpdateSkillProgress(ctx context.Context, linkID uuid.UUID, isConcluded bool, conclusionDate *time.Time) error
	UpdateMilestones(ctx context.Context, linkID uuid.UUID, milestones []models.Milestone) error
	Delete(ctx context.Context, roadmapID uuid.UUID) error
}

type roadmapRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewRoadmapRepository creates a new RoadmapRepository.
func NewRoadmapRepository(db *database.DB, logger *zap.Logger) RoadmapRepository {
	return &roadmapRepository{
		db:     db,
		logger: logger.Named("roadmap-repository"),
	}
}

var _ RoadmapRepository = (*roadmapRepository)(nil)

func (r *roadmapRepository) CreateWithLinks(ctx context.Context, roadmap *models.Roadmap, specs []LinkSpec) (uuid.UUID, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var roadmapID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO roadmaps (user_id, title, career_goal, experience, percentual_progress)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING id`,
		roadmap.UserID, roadmap.Title, roadmap.CareerGoal, roadmap.Experience,
	).Scan(&roadmapID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create roadmap: %w", err)
	}

	// Link ids are generated up front so prerequisite references between
	// links of the same roadmap can be resolved within this transaction.
	linkIDBySkill := make(map[uuid.UUID]uuid.UUID, len(specs))
	for _, spec := range specs {
		linkIDBySkill[spec.SkillID] = uuid.New()
	}

	for _, spec := range specs {
		prereqLinkIDs := make([]uuid.UUID, 0, len(spec.PrerequisiteSkillIDs))
		for _, prereqSkillID := range spec.PrerequisiteSkillIDs {
			linkID, ok := linkIDBySkill[prereqSkillID]
			if !ok {
				// Dangling reference: non-fatal, the link is created without it
				r.logger.Warn("Dropping prerequisite not present in roadmap",
					zap.String("skill_id", spec.SkillID.String()),
					zap.String("prerequisite_skill_id", prereqSkillID.String()))
				continue
			}
			prereqLinkIDs = append(prereqLinkIDs, linkID)
		}

		milestonesJSON, err := json.Marshal(normalizeMilestones(spec.Milestones))
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal milestones: %w", err)
		}
		prereqsJSON, err := json.Marshal(prereqLinkIDs)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal prerequisites: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO roadmap_skills (
				id, roadmap_id, skill_id, "order", is_concluded,
				milestones, learning_objectives, prerequisites, estimated_hours
			) VALUES ($1, $2, $3, $4, false, $5, $6, $7, $8)`,
			linkIDBySkill[spec.SkillID], roadmapID, spec.SkillID, spec.Order,
			milestonesJSON, spec.LearningObjectives, prereqsJSON, spec.EstimatedHours,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to create roadmap skill link: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit roadmap creation: %w", err)
	}

	return roadmapID, nil
}

func (r *roadmapRepository) GetByID(ctx context.Context, roadmapID uuid.UUID) (*models.Roadmap, error) {
	roadmap, err := r.scanRoadmapRow(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	links, err := r.loadLinks(ctx, []uuid.UUID{roadmapID})
	if err != nil {
		return nil, err
	}
	roadmap.Skills = links[roadmapID]

	if err := r.attachResources(ctx, roadmap.Skills); err != nil {
		return nil, err
	}

	return roadmap, nil
}

func (r *roadmapRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.Roadmap, error) {
	query := `
		SELECT id, user_id, title, career_goal, experience, percentual_progress, creation_date
		FROM roadmaps
		WHERE user_id = $1
		ORDER BY creation_date DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roadmaps: %w", err)
	}
	defer rows.Close()

	var roadmaps []*models.Roadmap
	var ids []uuid.UUID
	for rows.Next() {
		var m models.Roadmap
		if err := rows.Scan(&m.ID, &m.UserID, &m.Title, &m.CareerGoal, &m.Experience,
			&m.PercentualProgress, &m.CreationDate); err != nil {
			return nil, fmt.Errorf("failed to scan roadmap: %w", err)
		}
		roadmaps = append(roadmaps, &m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roadmaps: %w", err)
	}

	if len(ids) > 0 {
		links, err := r.loadLinks(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, m := range roadmaps {
			m.Skills = links[m.ID]
		}
	}

	return roadmaps, nil
}

func (r *roadmapRepository) GetOwnerID(ctx context.Context, roadmapID uuid.UUID) (uuid.UUID, error) {
	var userID uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT user_id FROM roadmaps WHERE id = $1`, roadmapID).Scan(&userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, apperrors.ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to query roadmap owner: %w", err)
	}
	return userID, nil
}

func (r *roadmapRepository) GetSkillLink(ctx context.Context, roadmapID, linkID uuid.UUID) (*models.RoadmapSkill, error) {
	query := `
		SELECT rs.id, rs.roadmap_id, rs.skill_id, rs."order", rs.is_concluded,
		       rs.conclusion_date, rs.milestones, rs.learning_objectives,
		       rs.prerequisites, rs.estimated_hours,
		       s.id, s.name, s.description, s.type, s.category
		FROM roadmap_skills rs
		JOIN skills s ON s.id = rs.skill_id
		WHERE rs.id = $1 AND rs.roadmap_id = $2`

	row := r.db.QueryRow(ctx, query, linkID, roadmapID)
	link, err := scanRoadmapSkill(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if err := r.attachResources(ctx, []*models.RoadmapSkill{link}); err != nil {
		return nil, err
	}

	return link, nil
}

func (r *roadmapRepository) UpdateSkillProgress(ctx context.Context, linkID uuid.UUID, isConcluded bool, conclusionDate *time.Time) error {
	result, err := r.db.Exec(ctx, `
		UPDATE roadmap_skills
		SET is_concluded = $2, conclusion_date = $3
		WHERE id = $1`,
		linkID, isConcluded, conclusionDate)
	if err != nil {
		return fmt.Errorf("failed to update skill progress: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *roadmapRepository) UpdateMilestones(ctx context.Context, linkID uuid.UUID, milestones []models.Milestone) error {
	milestonesJSON, err := json.Marshal(milestones)
	if err != nil {
		return fmt.Errorf("failed to marshal milestones: %w", err)
	}

	result, err := r.db.Exec(ctx, `
		UPDATE roadmap_skills
		SET milestones = $2
		WHERE id = $1`,
		linkID, milestonesJSON)
	if err != nil {
		return fmt.Errorf("failed to update milestones: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *roadmapRepository) Delete(ctx context.Context, roadmapID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM roadmaps WHERE id = $1`, roadmapID)
	if err != nil {
		return fmt.Errorf("failed to delete roadmap: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ============================================================================
// Helper Functions
// ============================================================================

func (r *roadmapRepository) scanRoadmapRow(ctx context.Context, roadmapID uuid.UUID) (*models.Roadmap, error) {
	var m models.Roadmap
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, title, career_goal, experience, percentual_progress, creation_date
		FROM roadmaps
		WHERE id = $1`, roadmapID,
	).Scan(&m.ID, &m.UserID, &m.Title, &m.CareerGoal, &m.Experience,
		&m.PercentualProgress, &m.CreationDate)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query roadmap: %w", err)
	}
	return &m, nil
}

func (r *roadmapRepository) loadLinks(ctx context.Context, roadmapIDs []uuid.UUID) (map[uuid.UUID][]*models.RoadmapSkill, error) {
	query := `
		SELECT rs.id, rs.roadmap_id, rs.skill_id, rs."order", rs.is_concluded,
		       rs.conclusion_date, rs.milestones, rs.learning_objectives,
		       rs.prerequisites, rs.estimated_hours,
		       s.id, s.name, s.description, s.type, s.category
		FROM roadmap_skills rs
		JOIN skills s ON s.id = rs.skill_id
		WHERE rs.roadmap_id = ANY($1)
		ORDER BY rs."order"`

	rows, err := r.db.Query(ctx, query, roadmapIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query roadmap skills: %w", err)
	}
	defer rows.Close()

	links := make(map[uuid.UUID][]*models.RoadmapSkill)
	for rows.Next() {
		link, err := scanRoadmapSkill(rows)
		if err != nil {
			return nil, err
		}
		links[link.RoadmapID] = append(links[link.RoadmapID], link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roadmap skills: %w", err)
	}

	return links, nil
}

func (r *roadmapRepository) attachResources(ctx context.Context, links []*models.RoadmapSkill) error {
	if len(links) == 0 {
		return nil
	}

	linkIDs := make([]uuid.UUID, len(links))
	byID := make(map[uuid.UUID]*models.RoadmapSkill, len(links))
	for i, l := range links {
		linkIDs[i] = l.ID
		byID[l.ID] = l
		l.Resources = []*models.SkillResource{}
	}

	query := `
		SELECT id, roadmap_skill_id, type, title, url, platform, is_free, date_added
		FROM skill_resources
		WHERE roadmap_skill_id = ANY($1)
		ORDER BY date_added`

	rows, err := r.db.Query(ctx, query, linkIDs)
	if err != nil {
		return fmt.Errorf("failed to query skill resources: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var res models.SkillResource
		var platform *string
		if err := rows.Scan(&res.ID, &res.RoadmapSkillID, &res.Type, &res.Title,
			&res.URL, &platform, &res.IsFree, &res.DateAdded); err != nil {
			return fmt.Errorf("failed to scan skill resource: %w", err)
		}
		if platform != nil {
			res.Platform = *platform
		}
		if link, ok := byID[res.RoadmapSkillID]; ok {
			link.Resources = append(link.Resources, &res)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating skill resources: %w", err)
	}

	return nil
}

func scanRoadmapSkill(row pgx.Row) (*models.RoadmapSkill, error) {
	var link models.RoadmapSkill
	var skill models.Skill
	var conclusionDate *time.Time
	var milestones, prerequisites []byte
	var learningObjectives, category *string

	err := row.Scan(
		&link.ID, &link.RoadmapID, &link.SkillID, &link.Order, &link.IsConcluded,
		&conclusionDate, &milestones, &learningObjectives,
		&prerequisites, &link.EstimatedHours,
		&skill.ID, &skill.Name, &skill.Description, &skill.Type, &category,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan roadmap skill: %w", err)
	}

	link.ConclusionDate = conclusionDate
	if learningObjectives != nil {
		link.LearningObjectives = *learningObjectives
	}
	if category != nil {
		skill.Category = *category
	}
	link.Skill = &skill

	link.Milestones = []models.Milestone{}
	if len(milestones) > 0 && string(milestones) != "null" {
		if err := json.Unmarshal(milestones, &link.Milestones); err != nil {
			return nil, fmt.Errorf("failed to unmarshal milestones: %w", err)
		}
	}

	link.Prerequisites = []uuid.UUID{}
	if len(prerequisites) > 0 && string(prerequisites) != "null" {
		if err := json.Unmarshal(prerequisites, &link.Prerequisites); err != nil {
			return nil, fmt.Errorf("failed to unmarshal prerequisites: %w", err)
		}
	}

	return &link, nil
}

// normalizeMilestones forces completion to false at creation time.
func normalizeMilestones(milestones []models.Milestone) []models.Milestone {
	normalized := make([]models.Milestone, len(milestones))
	for i, m := range milestones {
		m.Completed = false
		if m.Objectives == nil {
			m.Objectives = []string{}
		}
		normalized[i] = m
	}
	return normalized
}
