package direct_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-GroundBooking/internal/usecase/claim"
	createBooking "github.com/m04kA/SMC-GroundBooking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRequest     = "некорректная дата (YYYY-MM-DD) или время слота (HH:MM)"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные бронирования"
	msgInvalidBookingDate = "дата бронирования в прошлом"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgSlotInPast         = "выбранный слот уже прошёл"
)

type Handler struct {
	useCase DirectBookingUseCase
	logger  Logger
}

func NewHandler(useCase DirectBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/bookings
// Бронирование на месте: сразу в статусе confirmed
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /admin/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req DirectBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /admin/bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	result, err := h.useCase.ExecuteDirect(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /admin/bookings - Rejected: user_id=%d, ground_id=%d: %v", actor.ID, req.GroundID, err)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /admin/bookings - Invalid input: user_id=%d: %v", actor.ID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrSlotInPast):
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, claim.ErrLockTimeout):
			h.logger.Warn("POST /admin/bookings - Lock timeout: ground_id=%d", req.GroundID)
			handlers.RespondError(w, http.StatusServiceUnavailable, handlers.MsgBusy)

		default:
			h.logger.Error("POST /admin/bookings - Failed to create booking: user_id=%d, ground_id=%d, error=%v",
				actor.ID, req.GroundID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/bookings - Direct booking created: booking_id=%d, admin_id=%d, ground_id=%d, user_id=%d",
		result.ID, actor.ID, result.GroundID, result.UserID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(result))
}
