package complete_elapsed

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListSweepCandidates(ctx context.Context, upToDate time.Time) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, expected, next domain.BookingStatus, actorID int64, at time.Time) (*domain.Booking, error)
}

// Notifier доставка событий после фиксации (best-effort)
type Notifier interface {
	Notify(ctx context.Context, events ...domain.BookingEvent)
}

// AvailabilityCache проекция доступности, инвалидируется после записи
type AvailabilityCache interface {
	Invalidate(ctx context.Context, groundID int64, dates ...time.Time) error
}

// Metrics интерфейс для метрик sweep
type Metrics interface {
	IncStatusTransition(from, to string)
	IncSweepRun(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
