package get_ground_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/service/bookings"
)

const (
	msgInvalidGroundID = "некорректный ID площадки"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidParams   = "некорректные параметры запроса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/grounds/{groundId}/bookings
// Query params: date или from/to, status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groundID, err := handlers.PathInt64(r, "groundId")
	if err != nil {
		h.logger.Warn("GET /admin/grounds/{id}/bookings - Invalid ground ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroundID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /admin/grounds/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		groundID,
		query.Get("status"),
		query.Get("date"),
		query.Get("from"),
		query.Get("to"),
		query.Get("includeInactive"),
	)
	if err != nil {
		h.logger.Warn("GET /admin/grounds/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetGroundBookings(r.Context(), actor, serviceReq)
	if err != nil {
		switch {
		case handlers.RespondDomainError(w, err):
			h.logger.Warn("GET /admin/grounds/{id}/bookings - Rejected: ground_id=%d, user_id=%d: %v",
				groundID, actor.ID, err)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /admin/grounds/{id}/bookings - Failed to get bookings: ground_id=%d, error=%v",
				groundID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/grounds/{id}/bookings - Bookings retrieved successfully: ground_id=%d, count=%d",
		groundID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
