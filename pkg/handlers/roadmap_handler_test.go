package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trilha-app/trilha-engine/pkg/apperrors"
	"github.com/trilha-app/trilha-engine/pkg/auth"
	"github.com/trilha-app/trilha-engine/pkg/models"
	"github.com/trilha-app/trilha-engine/pkg/services"
)

func newRoadmapHandler(roadmapSvc *mockRoadmapService, genSvc *mockGenerationService, suggestSvc *mockSuggestionService) *RoadmapHandler {
	if roadmapSvc == nil {
		roadmapSvc = &mockRoadmapService{}
	}
	if genSvc == nil {
		genSvc = &mockGenerationService{}
	}
	if suggestSvc == nil {
		suggestSvc = &mockSuggestionService{}
	}
	return NewRoadmapHandler(roadmapSvc, genSvc, suggestSvc, zap.NewNop())
}

func authedRequest(t *testing.T, userID uuid.UUID, method, target, body string) *http.Request {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(auth.WithUserID(context.Background(), userID))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ApiResponse {
	t.Helper()
	var resp ApiResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestCreate_ValidationErrors(t *testing.T) {
	h := newRoadmapHandler(nil, nil, nil)
	userID := uuid.New()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing fields",
			body:    `{"title": "Trilha"}`,
			wantErr: "Título, objetivo de carreira e nível de experiência são obrigatórios",
		},
		{
			name:    "no skills",
			body:    `{"title": "Trilha", "career_goal": "Dev", "experience": "beginner", "skills": []}`,
			wantErr: "Pelo menos uma skill é obrigatória",
		},
		{
			name:    "malformed skill id",
			body:    `{"title": "Trilha", "career_goal": "Dev", "experience": "beginner", "skills": ["not-a-uuid"]}`,
			wantErr: "Identificador de skill inválido",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Create(rec, authedRequest(t, userID, http.MethodPost, "/api/roadmaps", tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeEnvelope(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantErr, resp.Error)
		})
	}
}

func TestCreate_Success(t *testing.T) {
	userID := uuid.New()
	skillID := uuid.New()

	var gotInput services.CreateRoadmapInput
	svc := &mockRoadmapService{
		CreateFunc: func(ctx context.Context, input services.CreateRoadmapInput) (*models.Roadmap, error) {
			gotInput = input
			return &models.Roadmap{ID: uuid.New(), UserID: input.UserID, Title: input.Title}, nil
		},
	}
	h := newRoadmapHandler(svc, nil, nil)

	body := `{"title": "Trilha JS", "career_goal": "Dev", "experience": "beginner", "skills": ["` + skillID.String() + `"]}`
	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(t, userID, http.MethodPost, "/api/roadmaps", body))

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, userID, gotInput.UserID)
	require.Len(t, gotInput.SkillIDs, 1)
	assert.Equal(t, skillID, gotInput.SkillIDs[0])
}

func TestListByUser_DeniesOtherUsers(t *testing.T) {
	h := newRoadmapHandler(nil, nil, nil)
	userID := uuid.New()

	req := authedRequest(t, userID, http.MethodGet, "/api/users/x/roadmaps", "")
	req.SetPathValue("userId", uuid.New().String())
	rec := httptest.NewRecorder()
	h.ListByUser(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Acesso negado", decodeEnvelope(t, rec).Error)
}

func TestGet_MapsDomainErrors(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantErr    string
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "Roadmap não encontrado"},
		{"access denied", apperrors.ErrAccessDenied, http.StatusForbidden, "Acesso negado"},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError, "Erro ao buscar roadmap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockRoadmapService{
				GetFunc: func(ctx context.Context, userID, roadmapID uuid.UUID) (*models.Roadmap, error) {
					return nil, tt.err
				},
			}
			h := newRoadmapHandler(svc, nil, nil)

			req := authedRequest(t, userID, http.MethodGet, "/api/roadmaps/x", "")
			req.SetPathValue("id", uuid.New().String())
			rec := httptest.NewRecorder()
			h.Get(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantErr, decodeEnvelope(t, rec).Error)
		})
	}
}

func TestUpdateSkillProgress_CollapsesTo404(t *testing.T) {
	userID := uuid.New()
	svc := &mockRoadmapService{
		ToggleSkillProgressFunc: func(ctx context.Context, userID, roadmapID, linkID uuid.UUID) (*models.RoadmapSkill, error) {
			return nil, apperrors.ErrAccessDenied
		},
	}
	h := newRoadmapHandler(svc, nil, nil)

	req := authedRequest(t, userID, http.MethodPut, "/api/roadmaps/x/skills/y/progress", "")
	req.SetPathValue("id", uuid.New().String())
	req.SetPathValue("skillId", uuid.New().String())
	rec := httptest.NewRecorder()
	h.UpdateSkillProgress(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Skill não encontrada ou acesso negado.", decodeEnvelope(t, rec).Error)
}

func TestUpdateMilestone_Validation(t *testing.T) {
	h := newRoadmapHandler(nil, nil, nil)
	userID := uuid.New()

	req := authedRequest(t, userID, http.MethodPut, "/api/roadmaps/x/skills/y/milestones/abc", `{"completed": true}`)
	req.SetPathValue("id", uuid.New().String())
	req.SetPathValue("skillId", uuid.New().String())
	req.SetPathValue("level", "abc")
	rec := httptest.NewRecorder()
	h.UpdateMilestone(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Nível do milestone inválido", decodeEnvelope(t, rec).Error)

	req = authedRequest(t, userID, http.MethodPut, "/api/roadmaps/x/skills/y/milestones/1", `{}`)
	req.SetPathValue("id", uuid.New().String())
	req.SetPathValue("skillId", uuid.New().String())
	req.SetPathValue("level", "1")
	rec = httptest.NewRecorder()
	h.UpdateMilestone(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `O campo "completed" deve ser um booleano`, decodeEnvelope(t, rec).Error)
}

func TestUpdateMilestone_NotFoundLevels(t *testing.T) {
	userID := uuid.New()
	svc := &mockRoadmapService{
		SetMilestoneCompletionFunc: func(ctx context.Context, userID, roadmapID, linkID uuid.UUID, level int, completed bool) (*services.SkillLinkDetail, error) {
			return nil, services.ErrMilestoneNotFound
		},
	}
	h := newRoadmapHandler(svc, nil, nil)

	req := authedRequest(t, userID, http.MethodPut, "/api/roadmaps/x/skills/y/milestones/9", `{"completed": true}`)
	req.SetPathValue("id", uuid.New().String())
	req.SetPathValue("skillId", uuid.New().String())
	req.SetPathValue("level", "9")
	rec := httptest.NewRecorder()
	h.UpdateMilestone(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Milestone não encontrado", decodeEnvelope(t, rec).Error)
}

func TestDelete_Success(t *testing.T) {
	userID := uuid.New()
	svc := &mockRoadmapService{}
	h := newRoadmapHandler(svc, nil, nil)

	req := authedRequest(t, userID, http.MethodDelete, "/api/roadmaps/x", "")
	req.SetPathValue("id", uuid.New().String())
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Roadmap deletado com sucesso", resp.Message)
	assert.Equal(t, 1, svc.DeleteCalls)
}

func TestSuggestions_Validation(t *testing.T) {
	h := newRoadmapHandler(nil, nil, nil)

	rec := httptest.NewRecorder()
	h.Suggestions(rec, authedRequest(t, uuid.New(), http.MethodPost, "/api/roadmaps/suggestions", `{"career_goal": "Dev"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Objetivo de carreira e nível de experiência são obrigatórios", decodeEnvelope(t, rec).Error)
}

func TestGenerateComplete_Validation(t *testing.T) {
	h := newRoadmapHandler(nil, nil, nil)
	userID := uuid.New()

	rec := httptest.NewRecorder()
	h.GenerateComplete(rec, authedRequest(t, userID, http.MethodPost, "/api/roadmaps/generate-complete", `{"experience": "beginner"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Meta de carreira e nível de experiência são obrigatórios", decodeEnvelope(t, rec).Error)

	rec = httptest.NewRecorder()
	h.GenerateComplete(rec, authedRequest(t, userID, http.MethodPost, "/api/roadmaps/generate-complete",
		`{"career_goal": "Dev", "experience": "beginner", "selected_skill_ids": []}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Pelo menos uma skill deve ser selecionada", decodeEnvelope(t, rec).Error)
}

func TestGenerateComplete_NoValidSkills(t *testing.T) {
	userID := uuid.New()
	genSvc := &mockGenerationService{
		GenerateCompleteFunc: func(ctx context.Context, input services.GenerateRoadmapInput) (*models.Roadmap, error) {
			return nil, services.ErrNoValidSkills
		},
	}
	h := newRoadmapHandler(nil, genSvc, nil)

	body := `{"career_goal": "Dev", "experience": "beginner", "selected_skill_ids": ["` + uuid.New().String() + `"]}`
	rec := httptest.NewRecorder()
	h.GenerateComplete(rec, authedRequest(t, userID, http.MethodPost, "/api/roadmaps/generate-complete", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Nenhuma skill válida foi selecionada", decodeEnvelope(t, rec).Error)
}

func TestGenerateComplete_Success(t *testing.T) {
	userID := uuid.New()
	skillID := uuid.New()

	var gotInput services.GenerateRoadmapInput
	genSvc := &mockGenerationService{
		GenerateCompleteFunc: func(ctx context.Context, input services.GenerateRoadmapInput) (*models.Roadmap, error) {
			gotInput = input
			return &models.Roadmap{ID: uuid.New(), UserID: input.UserID, Title: "Trilha JS"}, nil
		},
	}
	h := newRoadmapHandler(nil, genSvc, nil)

	body := `{"career_goal": "Dev", "experience": "beginner", "selected_skill_ids": ["` + skillID.String() + `"]}`
	rec := httptest.NewRecorder()
	h.GenerateComplete(rec, authedRequest(t, userID, http.MethodPost, "/api/roadmaps/generate-complete", body))

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, userID, gotInput.UserID)
	require.Len(t, gotInput.SelectedSkillIDs, 1)
	assert.Equal(t, skillID, gotInput.SelectedSkillIDs[0])
}
