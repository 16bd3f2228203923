package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trilha-app/trilha-engine/pkg/apperrors"
	"github.com/trilha-app/trilha-engine/pkg/auth"
	"github.com/trilha-app/trilha-engine/pkg/services"
)

// RoadmapHandler serves roadmap CRUD, progress tracking and the
// AI-assisted generation endpoints. All routes require authentication.
type RoadmapHandler struct {
	roadmapService    services.RoadmapService
	generationService services.RoadmapGenerationService
	suggestionService services.SkillSuggestionService
	logger            *zap.Logger
}

// NewRoadmapHandler creates a new RoadmapHandler.
func NewRoadmapHandler(
	roadmapService services.RoadmapService,
	generationService services.RoadmapGenerationService,
	suggestionService services.SkillSuggestionService,
	logger *zap.Logger,
) *RoadmapHandler {
	return &RoadmapHandler{
		roadmapService:    roadmapService,
		generationService: generationService,
		suggestionService: suggestionService,
		logger:            logger.Named("roadmap-handler"),
	}
}

// RegisterRoutes registers the roadmap handler's routes on the given mux.
func (h *RoadmapHandler) RegisterRoutes(mux *http.ServeMux, authMW *auth.Middleware) {
	mux.HandleFunc("POST /api/roadmaps", authMW.RequireAuth(h.Create))
	mux.HandleFunc("POST /api/roadmaps/suggestions", authMW.RequireAuth(h.Suggestions))
	mux.HandleFunc("POST /api/roadmaps/generate-complete", authMW.RequireAuth(h.GenerateComplete))
	mux.HandleFunc("GET /api/users/{userId}/roadmaps", authMW.RequireAuth(h.ListByUser))
	mux.HandleFunc("GET /api/roadmaps/{id}", authMW.RequireAuth(h.Get))
	mux.HandleFunc("DELETE /api/roadmaps/{id}", authMW.RequireAuth(h.Delete))
	mux.HandleFunc("GET /api/roadmaps/{id}/skills", authMW.RequireAuth(h.GetSkills))
	mux.HandleFunc("GET /api/roadmaps/{id}/skills/{skillId}", authMW.RequireAuth(h.GetSkill))
	mux.HandleFunc("PUT /api/roadmaps/{id}/skills/{skillId}/progress", authMW.RequireAuth(h.UpdateSkillProgress))
	mux.HandleFunc("PUT /api/roadmaps/{id}/skills/{skillId}/milestones/{level}", authMW.RequireAuth(h.UpdateMilestone))
}

type createRoadmapRequest struct {
	Title      string   `json:"title"`
	CareerGoal string   `json:"career_goal"`
	Experience string   `json:"experience"`
	Skills     []string `json:"skills"`
}

// Create handles POST /api/roadmaps requests: a plain create from
// caller-picked skills, no generative calls involved.
func (h *RoadmapHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	var req createRoadmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "Título, objetivo de carreira e nível de experiência são obrigatórios")
		return
	}

	if req.Title == "" || req.CareerGoal == "" || req.Experience == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "Título, objetivo de carreira e nível de experiência são obrigatórios")
		return
	}
	if len(req.Skills) == 0 {
		_ = ErrorResponse(w, http.StatusBadRequest, "Pelo menos uma skill é obrigatória")
		return
	}

	skillIDs, err := parseUUIDs(req.Skills)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "Identificador de skill inválido")
		return
	}

	roadmap, err := h.roadmapService.Create(r.Context(), services.CreateRoadmapInput{
		UserID:     userID,
		Title:      req.Title,
		CareerGoal: req.CareerGoal,
		Experience: req.Experience,
		SkillIDs:   skillIDs,
	})
	if err != nil {
		h.logger.Error("Create roadmap error", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "Erro ao criar roadmap")
		return
	}

	_ = SuccessResponse(w, http.StatusCreated, roadmap)
}

// ListByUser handles GET /api/users/{userId}/roadmaps requests. Users
// can only list their own roadmaps.
func (h *RoadmapHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	pathUserID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil || pathUserID != userID {
		_ = ErrorResponse(w, http.StatusForbidden, "Acesso negado")
		return
	}

	roadmaps, err := h.roadmapService.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Get user roadmaps error", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "Erro ao buscar roadmaps")
		return
	}

	_ = SuccessResponse(w, http.StatusOK, map[string]any{"roadmaps": roadmaps})
}

// Get handles GET /api/roadmaps/{id} requests.
func (h *RoadmapHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	roadmapID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusNotFound, "Roadmap não encontrado")
		return
	}

	roadmap, err := h.roadmapService.Get(r.Context(), userID, roadmapID)
	if err != nil {
		h.writeRoadmapError(w, err, "Get roadmap by ID error", "Erro ao buscar roadmap")
		return
	}

	_ = SuccessResponse(w, http.StatusOK, map[string]any{
		"roadmap": roadmap,
		"skills":  roadmap.Skills,
	})
}

// GetSkills handles GET /api/roadmaps/{id}/skills requests.
func (h *RoadmapHandler) GetSkills(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	roadmapID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusNotFound, "Roadmap não encontrado")
		return
	}

	skills, err := h.roadmapService.GetSkillLinks(r.Context(), userID, roadmapID)
	if err != nil {
		h.writeRoadmapError(w, err, "Get roadmap skills error", "Erro ao buscar skills do roadmap")
		return
	}

	_ = SuccessResponse(w, http.StatusOK, map[string]any{"skills": skills})
}

// GetSkill handles GET /api/roadmaps/{id}/skills/{skillId} requests.
func (h *RoadmapHandler) GetSkill(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	roadmapID, linkID, ok := h.skillLinkPath(w, r)
	if !ok {
		return
	}

	skill, err := h.roadmapService.GetSkillLink(r.Context(), userID, roadmapID, linkID)
	if err != nil {
		h.writeRoadmapError(w, err, "Get roadmap skill by ID error", "Erro ao buscar skill do roadmap")
		return
	}

	_ = SuccessResponse(w, http.StatusOK, map[string]any{"skill": skill})
}

// UpdateSkillProgress handles PUT /api/roadmaps/{id}/skills/{skillId}/progress
// requests, toggling the link's completion.
func (h *RoadmapHandler) UpdateSkillProgress(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	roadmapID, linkID, ok := h.skillLinkPath(w, r)
	if !ok {
		return
	}

	link, err := h.roadmapService.ToggleSkillProgress(r.Context(), userID, roadmapID, linkID)
	if err != nil {
		// The lookup spans ownership and existence; both collapse to 404.
		if errors.Is(err, apperrors.ErrNotFound) ||
			errors.Is(err, apperrors.ErrAccessDenied) ||
			errors.Is(err, services.ErrSkillLinkNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "Skill não encontrada ou acesso negado.")
			return
		}
		h.logger.Error("Update skill progress error", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "Erro ao atualizar progresso da skill")
		return
	}

	_ = SuccessResponse(w, http.StatusOK, map[string]any{"roadmapSkill": link})
}

type updateMilestoneRequest struct {
	Completed *bool `json:"completed"`
}

// UpdateMilestone handles PUT /api/roadmaps/{id}/skills/{skillId}/milestones/{level}
// requests, setting one milestone's completion flag.
func (h *RoadmapHandler) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	roadmapID, linkID, ok := h.skillLinkPath(w, r)
	if !ok {
		return
	}

	level, err := strconv.Atoi(r.PathValue("level"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "Nível do milestone inválido")
		return
	}

	var req updateMilestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Completed == nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "O campo \"completed\" deve ser um booleano")
		return
	}

	skill, err := h.roadmapService.SetMilestoneCompletion(r.Context(), userID, roadmapID, linkID, level, *req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMilestoneNotFound):
			_ = ErrorResponse(w, http.StatusNotFound, "Milestone não encontrado")
		case errors.Is(err, services.ErrSkillLinkNotFound):
			_ = ErrorResponse(w, http.StatusNotFound, "Skill não encontrada neste roadmap")
		default:
			h.writeRoadmapError(w, err, "Update milestone progress error", "Erro ao atualizar progresso do milestone")
		}
		return
	}

	_ = SuccessResponse(w, http.StatusOK, map[string]any{"skill": skill})
}

// Delete handles DELETE /api/roadmaps/{id} requests.
func (h *RoadmapHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	roadmapID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusNotFound, "Roadmap não encontrado")
		return
	}

	if err := h.roadmapService.Delete(r.Context(), userID, roadmapID); err != nil {
		h.writeRoadmapError(w, err, "Delete roadmap error", "Erro ao deletar roadmap")
		return
	}

	_ = MessageResponse(w, http.StatusOK, "Roadmap deletado com sucesso")
}

type suggestionsRequest struct {
	CareerGoal string `json:"career_goal"`
	Experience string `json:"experience"`
}

// Suggestions handles POST /api/roadmaps/suggestions requests.
func (h *RoadmapHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	var req suggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CareerGoal == "" || req.Experience == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "Objetivo de carreira e nível de experiência são obrigatórios")
		return
	}

	result, err := h.suggestionService.Suggest(r.Context(), req.CareerGoal, req.Experience)
	if err != nil {
		h.logger.Error("Generate roadmap suggestions error", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "Erro ao gerar sugestões de roadmap")
		return
	}

	_ = SuccessResponse(w, http.StatusOK, result)
}

type generateCompleteRequest struct {
	CareerGoal       string   `json:"career_goal"`
	Experience       string   `json:"experience"`
	SelectedSkillIDs []string `json:"selected_skill_ids"`
}

// GenerateComplete handles POST /api/roadmaps/generate-complete
// requests, running the full synthesis pipeline.
func (h *RoadmapHandler) GenerateComplete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	var req generateCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CareerGoal == "" || req.Experience == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "Meta de carreira e nível de experiência são obrigatórios")
		return
	}
	if len(req.SelectedSkillIDs) == 0 {
		_ = ErrorResponse(w, http.StatusBadRequest, "Pelo menos uma skill deve ser selecionada")
		return
	}

	skillIDs, err := parseUUIDs(req.SelectedSkillIDs)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "Nenhuma skill válida foi selecionada")
		return
	}

	roadmap, err := h.generationService.GenerateComplete(r.Context(), services.GenerateRoadmapInput{
		UserID:           userID,
		CareerGoal:       req.CareerGoal,
		Experience:       req.Experience,
		SelectedSkillIDs: skillIDs,
	})
	if err != nil {
		if errors.Is(err, services.ErrNoValidSkills) {
			_ = ErrorResponse(w, http.StatusBadRequest, "Nenhuma skill válida foi selecionada")
			return
		}
		h.logger.Error("Generate complete roadmap error", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "Erro ao gerar roadmap completo")
		return
	}

	_ = SuccessResponse(w, http.StatusCreated, map[string]any{"roadmap": roadmap})
}

// skillLinkPath parses the {id} and {skillId} path values, writing a
// 404 envelope on malformed ids.
func (h *RoadmapHandler) skillLinkPath(w http.ResponseWriter, r *http.Request) (roadmapID, linkID uuid.UUID, ok bool) {
	roadmapID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusNotFound, "Roadmap não encontrado")
		return uuid.Nil, uuid.Nil, false
	}
	linkID, err = uuid.Parse(r.PathValue("skillId"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusNotFound, "Skill não encontrada neste roadmap")
		return uuid.Nil, uuid.Nil, false
	}
	return roadmapID, linkID, true
}

// writeRoadmapError maps domain errors onto the roadmap routes' status
// codes, falling back to a generic 500 message.
func (h *RoadmapHandler) writeRoadmapError(w http.ResponseWriter, err error, logMsg, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		_ = ErrorResponse(w, http.StatusNotFound, "Roadmap não encontrado")
	case errors.Is(err, apperrors.ErrAccessDenied):
		_ = ErrorResponse(w, http.StatusForbidden, "Acesso negado")
	case errors.Is(err, services.ErrSkillLinkNotFound):
		_ = ErrorResponse(w, http.StatusNotFound, "Skill não encontrada neste roadmap")
	default:
		h.logger.Error(logMsg, zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, fallback)
	}
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
