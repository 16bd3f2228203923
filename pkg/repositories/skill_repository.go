package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/trilha-app/trilha-engine/pkg/apperrors"
	"github.com/trilha-app/trilha-engine/pkg/database"
	"github.com/trilha-app/trilha-engine/pkg/models"
)

// SkillRepository provides read access to the immutable skill catalog.
type SkillRepository interface {
	GetAll(ctx context.Context) ([]*models.Skill, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Skill, error)
}

type skillRepository struct {
	db *database.DB
}

// NewSkillRepository creates a new SkillRepository.
func NewSkillRepository(db *database.DB) SkillRepository {
	return &skillRepository{db: db}
}

var _ SkillRepository = (*skillRepository)(nil)

func (r *skillRepository) GetAll(ctx context.Context) ([]*models.Skill, error) {
	query := `
		SELECT id, name, description, type, category
		FROM skills
		ORDER BY type, category, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

func (r *skillRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	var s models.Skill
	var category *string
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, type, category
		FROM skills
		WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Description, &s.Type, &category)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query skill: %w", err)
	}
	if category != nil {
		s.Category = *category
	}
	return &s, nil
}

func (r *skillRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Skill, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, description, type, category
		FROM skills
		WHERE id = ANY($1)
		ORDER BY type, category, name`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills by ids: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

func scanSkills(rows pgx.Rows) ([]*models.Skill, error) {
	var skills []*models.Skill
	for rows.Next() {
		var s models.Skill
		var category *string
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Type, &category); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		if category != nil {
			s.Category = *category
		}
		skills = append(skills, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skills: %w", err)
	}

	return skills, nil
}
