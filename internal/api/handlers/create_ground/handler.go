package create_ground

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/service/grounds"
	"github.com/m04kA/SMC-GroundBooking/internal/service/grounds/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные площадки"
	msgInvalidCategory    = "неизвестная категория площадки, допустимо: day, night"
	msgDuplicateName      = "площадка с таким именем уже существует"
)

type Handler struct {
	service GroundService
	logger  Logger
}

func NewHandler(service GroundService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/grounds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /admin/grounds - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateGroundRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/grounds - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		switch {
		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /admin/grounds - Rejected: user_id=%d: %v", actor.ID, err)

		case errors.Is(err, grounds.ErrInvalidCategory):
			handlers.RespondBadRequest(w, msgInvalidCategory)

		case errors.Is(err, grounds.ErrInvalidInput):
			h.logger.Warn("POST /admin/grounds - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, grounds.ErrDuplicateName):
			handlers.RespondConflict(w, msgDuplicateName)

		default:
			h.logger.Error("POST /admin/grounds - Failed to create ground: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/grounds - Ground created: ground_id=%d, admin_id=%d", result.ID, actor.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
