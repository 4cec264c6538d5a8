package create_booking

import (
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor    domain.Actor      // Кто создаёт бронирование
	UserID   int64             // Для кого бронирование (для прямого бронирования может отличаться от Actor)
	GroundID int64             // ID площадки
	Date     time.Time         // Дата бронирования (без времени)
	Slots    []domain.Interval // Выбранные слоты по 30 минут, должны идти подряд
	Notes    *string           // Дополнительные заметки (опционально)
}

// Settings бизнес-настройки бронирования
type Settings struct {
	Pricing            domain.Pricing
	Location           *time.Location
	AdvanceBookingDays int // 0 - без ограничений
}
