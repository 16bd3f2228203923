package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/trilha-app/trilha-engine/pkg/database"
)

// ResourceSpec describes one learning resource to attach to a skill link.
type ResourceSpec struct {
	Type     string
	Title    string
	URL      string
	Platform string
	IsFree   bool
}

// ResourceRepository provides data access for skill learning resources.
type ResourceRepository interface {
	// CreateForLink inserts resources for a skill link. Rows that collide
	// with an existing (link, title, url) triple are skipped, so replaying
	// the same enrichment output is safe.
	CreateForLink(ctx context.Context, linkID uuid.UUID, specs []ResourceSpec) error
}

type resourceRepository struct {
	db *database.DB
}

// NewResourceRepository creates a new ResourceRepository.
func NewResourceRepository(db *database.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

var _ ResourceRepository = (*resourceRepository)(nil)

func (r *resourceRepository) CreateForLink(ctx context.Context, linkID uuid.UUID, specs []ResourceSpec) error {
	if len(specs) == 0 {
		return nil
	}

	query := `
		INSERT INTO skill_resources (roadmap_skill_id, type, title, url, platform, is_free)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (roadmap_skill_id, title, url) DO NOTHING`

	for _, spec := range specs {
		var platform *string
		if spec.Platform != "" {
			platform = &spec.Platform
		}
		if _, err := r.db.Exec(ctx, query, linkID, spec.Type, spec.Title, spec.URL, platform, spec.IsFree); err != nil {
			return fmt.Errorf("failed to create skill resource: %w", err)
		}
	}

	return nil
}
