package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/usecase/claim"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByGroundAndDate(ctx context.Context, groundID int64, date time.Time) ([]*domain.Booking, error)
}

// GroundRepository интерфейс репозитория площадок
type GroundRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Ground, error)
}

// ClaimGuard сериализует захват слота по ключу (площадка, дата)
type ClaimGuard interface {
	Run(ctx context.Context, keys []claim.Key, fn func(ctx context.Context) error) error
}

// Notifier доставка событий после фиксации (best-effort)
type Notifier interface {
	Notify(ctx context.Context, events ...domain.BookingEvent)
}

// AvailabilityCache проекция доступности, инвалидируется после записи
type AvailabilityCache interface {
	Invalidate(ctx context.Context, groundID int64, dates ...time.Time) error
}

// Metrics интерфейс для метрик захвата слотов
type Metrics interface {
	IncSlotClaim(operation, outcome string)
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
