package update_ground

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/service/grounds"
	"github.com/m04kA/SMC-GroundBooking/internal/service/grounds/models"
)

const (
	msgInvalidGroundID    = "некорректный ID площадки"
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

// Handle PUT /api/v1/admin/grounds/{groundId}
// Частичное обновление: name, category, active
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /admin/grounds/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	groundID, err := handlers.PathInt64(r, "groundId")
	if err != nil {
		h.logger.Warn("PUT /admin/grounds/{id} - Invalid ground ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroundID)
		return
	}

	var req models.UpdateGroundRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/grounds/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), actor, groundID, &req)
	if err != nil {
		switch {
		case handlers.RespondDomainError(w, err):
			h.logger.Warn("PUT /admin/grounds/{id} - Rejected: ground_id=%d: %v", groundID, err)

		case errors.Is(err, grounds.ErrInvalidCategory):
			handlers.RespondBadRequest(w, msgInvalidCategory)

		case errors.Is(err, grounds.ErrInvalidInput):
			h.logger.Warn("PUT /admin/grounds/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, grounds.ErrDuplicateName):
			handlers.RespondConflict(w, msgDuplicateName)

		default:
			h.logger.Error("PUT /admin/grounds/{id} - Failed to update ground: ground_id=%d, error=%v", groundID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/grounds/{id} - Ground updated: ground_id=%d, active=%t", result.ID, result.Active)
	handlers.RespondJSON(w, http.StatusOK, result)
}
