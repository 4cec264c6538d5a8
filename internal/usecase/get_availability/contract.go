package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByGroundAndDate(ctx context.Context, groundID int64, date time.Time) ([]*domain.Booking, error)
}

// GroundRepository интерфейс репозитория площадок
type GroundRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Ground, error)
}

// AvailabilityCache проекция занятости площадки на дату
type AvailabilityCache interface {
	Get(ctx context.Context, groundID int64, date time.Time) ([]*domain.Booking, bool, error)
	Set(ctx context.Context, groundID int64, date time.Time, bookings []*domain.Booking) error
}

// Metrics интерфейс для метрик кэша
type Metrics interface {
	IncCacheLookup(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
