package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trilha-app/trilha-engine/pkg/apperrors"
	"github.com/trilha-app/trilha-engine/pkg/models"
)

type mockSkillRepo struct {
	GetAllFunc  func(ctx context.Context) ([]*models.Skill, error)
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*models.Skill, error)
}

func (m *mockSkillRepo) GetAll(ctx context.Context) ([]*models.Skill, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockSkillRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockSkillRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Skill, error) {
	return nil, nil
}

func TestGetAllSkills(t *testing.T) {
	repo := &mockSkillRepo{
		GetAllFunc: func(ctx context.Context) ([]*models.Skill, error) {
			return []*models.Skill{{ID: uuid.New(), Name: "JavaScript", Type: models.SkillTypeHard}}, nil
		},
	}
	h := NewSkillHandler(repo, zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetAll(rec, httptest.NewRequest(http.MethodGet, "/api/skills", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
}

func TestGetSkillByID_NotFound(t *testing.T) {
	h := NewSkillHandler(&mockSkillRepo{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/skills/x", nil)
	req.SetPathValue("id", uuid.New().String())
	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Skill não encontrada", decodeEnvelope(t, rec).Error)
}

func TestGetSkillByID_Success(t *testing.T) {
	skill := &models.Skill{ID: uuid.New(), Name: "React", Type: models.SkillTypeHard}
	repo := &mockSkillRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
			require.Equal(t, skill.ID, id)
			return skill, nil
		},
	}
	h := NewSkillHandler(repo, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/skills/x", nil)
	req.SetPathValue("id", skill.ID.String())
	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
}
