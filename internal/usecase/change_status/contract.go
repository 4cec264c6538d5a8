package change_status

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/usecase/claim"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByGroundAndDate(ctx context.Context, groundID int64, date time.Time) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, expected, next domain.BookingStatus, actorID int64, at time.Time) (*domain.Booking, error)
}

// ClaimGuard сериализует захват слота по ключу (площадка, дата)
type ClaimGuard interface {
	Run(ctx context.Context, keys []claim.Key, fn func(ctx context.Context) error) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier доставка событий после фиксации (best-effort)
type Notifier interface {
	Notify(ctx context.Context, events ...domain.BookingEvent)
}

// AvailabilityCache проекция доступности, инвалидируется после записи
type AvailabilityCache interface {
	Invalidate(ctx context.Context, groundID int64, dates ...time.Time) error
}

// Metrics интерфейс для метрик переходов
type Metrics interface {
	IncStatusTransition(from, to string)
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
