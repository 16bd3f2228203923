package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trilha-app/trilha-engine/pkg/apperrors"
	"github.com/trilha-app/trilha-engine/pkg/repositories"
)

// SkillHandler serves the read-only skill catalog. Routes are public:
// clients browse the catalog before authenticating.
type SkillHandler struct {
	skillRepo repositories.SkillRepository
	logger    *zap.Logger
}

// NewSkillHandler creates a new SkillHandler.
func NewSkillHandler(skillRepo repositories.SkillRepository, logger *zap.Logger) *SkillHandler {
	return &SkillHandler{skillRepo: skillRepo, logger: logger.Named("skill-handler")}
}

// RegisterRoutes registers the skill handler's routes on the given mux.
func (h *SkillHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/skills", h.GetAll)
	mux.HandleFunc("GET /api/skills/{id}", h.GetByID)
}

// GetAll handles GET /api/skills requests.
func (h *SkillHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	skills, err := h.skillRepo.GetAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to load skill catalog", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "Erro ao buscar skills")
		return
	}

	_ = SuccessResponse(w, http.StatusOK, skills)
}

// GetByID handles GET /api/skills/{id} requests.
func (h *SkillHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusNotFound, "Skill não encontrada")
		return
	}

	skill, err := h.skillRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "Skill não encontrada")
			return
		}
		h.logger.Error("Failed to load skill", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "Erro ao buscar skill")
		return
	}

	_ = SuccessResponse(w, http.StatusOK, skill)
}
