package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, at time.Time) error
	Delete(ctx context.Context, id int64) error
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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
