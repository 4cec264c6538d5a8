package get_availability

import (
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/scheduling"
)

// Request модель запроса сетки слотов
type Request struct {
	GroundID    int64     // ID площадки
	Date        time.Time // Дата (без времени)
	RequesterID int64     // ID запрашивающего, 0 - анонимный
}

// Response сетка слотов площадки на дату
type Response struct {
	Ground *domain.Ground
	Date   time.Time
	Slots  []scheduling.SlotState
}
