package confirm_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-GroundBooking/internal/usecase/claim"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
)

type Handler struct {
	useCase ConfirmBookingUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/bookings/{bookingId}/confirm
// Подтверждение pending бронирования, слот перепроверяется под блокировкой
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /admin/bookings/{id}/confirm - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /admin/bookings/{id}/confirm - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.useCase.Confirm(r.Context(), actor, bookingID)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("PATCH /admin/bookings/{id}/confirm - Rejected: booking_id=%d, admin_id=%d: %v",
				bookingID, actor.ID, err)
			return
		}
		if errors.Is(err, claim.ErrLockTimeout) {
			h.logger.Warn("PATCH /admin/bookings/{id}/confirm - Lock timeout: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusServiceUnavailable, handlers.MsgBusy)
			return
		}
		h.logger.Error("PATCH /admin/bookings/{id}/confirm - Failed to confirm booking: booking_id=%d, error=%v",
			bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /admin/bookings/{id}/confirm - Booking confirmed successfully: booking_id=%d, admin_id=%d",
		bookingID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking))
}
