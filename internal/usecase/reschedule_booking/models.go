package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// Request модель запроса на перенос бронирования
type Request struct {
	Actor     domain.Actor      // Владелец или администратор
	BookingID int64             // ID переносимого бронирования
	Date      time.Time         // Новая дата (без времени)
	Slots     []domain.Interval // Новые слоты, должны идти подряд
}

// Settings бизнес-настройки бронирования
type Settings struct {
	Pricing            domain.Pricing
	Location           *time.Location
	AdvanceBookingDays int // 0 - без ограничений
}
