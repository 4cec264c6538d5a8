// Package notifier доставляет события о смене состояния бронирований.
// Доставка best-effort: вызывается после фиксации транзакции, ошибки
// логируются и не влияют на результат операции.
package notifier

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

const (
	outcomeSent   = "sent"
	outcomeFailed = "failed"
)

// Notifier отправляет события через Emitter, не возвращая ошибок вызывающему
type Notifier struct {
	emitter Emitter
	metrics Metrics
	logger  Logger
}

// NewNotifier создает notifier. metrics может быть nil.
func NewNotifier(emitter Emitter, metrics Metrics, logger Logger) *Notifier {
	return &Notifier{emitter: emitter, metrics: metrics, logger: logger}
}

// Notify отправляет события по порядку
func (n *Notifier) Notify(ctx context.Context, events ...domain.BookingEvent) {
	for _, event := range events {
		// Отправка не должна отменяться вместе с HTTP запросом
		err := n.emitter.Emit(context.WithoutCancel(ctx), event)
		if err != nil {
			n.logger.Warn("Notify: failed to emit %s for booking=%d: %v", event.Type, event.BookingID, err)
			n.observe(event.Type, outcomeFailed)
			continue
		}
		n.observe(event.Type, outcomeSent)
	}
}

func (n *Notifier) observe(eventType domain.EventType, outcome string) {
	if n.metrics == nil {
		return
	}
	n.metrics.IncNotification(string(eventType), outcome)
}
