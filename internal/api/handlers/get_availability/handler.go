package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	getAvailability "github.com/m04kA/SMC-GroundBooking/internal/usecase/get_availability"
)

const (
	msgInvalidGroundID = "некорректный ID площадки"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/grounds/{groundId}/availability?date=YYYY-MM-DD
// X-User-ID опционален: с ним собственные бронирования помечаются own_*
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groundID, err := handlers.PathInt64(r, "groundId")
	if err != nil {
		h.logger.Warn("GET /grounds/{id}/availability - Invalid ground ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroundID)
		return
	}

	date, err := handlers.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /grounds/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Анонимный запрос допустим
	requesterID, _ := middleware.GetUserID(r.Context())

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		GroundID:    groundID,
		Date:        date,
		RequesterID: requesterID,
	})
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /grounds/{id}/availability - Rejected: ground_id=%d: %v", groundID, err)
			return
		}
		if errors.Is(err, getAvailability.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidGroundID)
			return
		}
		h.logger.Error("GET /grounds/{id}/availability - Failed to get availability: ground_id=%d, error=%v",
			groundID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /grounds/{id}/availability - Slots retrieved: ground_id=%d, date=%s, count=%d",
		groundID, result.Date.Format(domain.DateFormat), len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
