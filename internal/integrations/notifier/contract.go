package notifier

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// Emitter транспорт событий
type Emitter interface {
	Emit(ctx context.Context, event domain.BookingEvent) error
}

// Metrics интерфейс для метрик уведомлений
type Metrics interface {
	IncNotification(eventType, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
