package list_grounds

import (
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
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

// Handle GET /api/v1/grounds
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListActive(r.Context())
	if err != nil {
		h.logger.Error("GET /grounds - Failed to list grounds: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /grounds - Grounds retrieved: count=%d", len(result.Grounds))
	handlers.RespondJSON(w, http.StatusOK, result)
}
