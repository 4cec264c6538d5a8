package notifier

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// LogEmitter пишет события в лог, когда брокер отключён
type LogEmitter struct {
	logger Logger
}

// NewLogEmitter создает emitter, пишущий в лог
func NewLogEmitter(logger Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

// Emit логирует событие
func (e *LogEmitter) Emit(_ context.Context, event domain.BookingEvent) error {
	e.logger.Info("event %s id=%s booking=%d ground=%d user=%d status=%s date=%s %s-%s",
		event.Type, event.ID, event.BookingID, event.GroundID, event.UserID, event.Status,
		event.BookingDate.Format(domain.DateFormat), event.StartTime, event.EndTime)
	return nil
}
