package notifier

import (
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// EventMessage тело сообщения о смене состояния бронирования
type EventMessage struct {
	EventID     string  `json:"event_id"`
	Type        string  `json:"type"`
	BookingID   int64   `json:"booking_id"`
	GroundID    int64   `json:"ground_id"`
	UserID      int64   `json:"user_id"`
	ActorID     int64   `json:"actor_id"`
	Status      string  `json:"status"`
	BookingDate string  `json:"booking_date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	TotalAmount float64 `json:"total_amount"`

	PreviousDate  *string `json:"previous_date,omitempty"`
	PreviousStart *string `json:"previous_start_time,omitempty"`
	PreviousEnd   *string `json:"previous_end_time,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// FromDomainEvent конвертирует доменное событие в сообщение
func FromDomainEvent(e domain.BookingEvent) EventMessage {
	msg := EventMessage{
		EventID:       e.ID,
		Type:          string(e.Type),
		BookingID:     e.BookingID,
		GroundID:      e.GroundID,
		UserID:        e.UserID,
		ActorID:       e.ActorID,
		Status:        string(e.Status),
		BookingDate:   e.BookingDate.Format(domain.DateFormat),
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		TotalAmount:   e.TotalAmount,
		PreviousStart: e.PreviousStart,
		PreviousEnd:   e.PreviousEnd,
		OccurredAt:    e.OccurredAt.UTC(),
	}

	if e.PreviousDate != nil {
		d := e.PreviousDate.Format(domain.DateFormat)
		msg.PreviousDate = &d
	}

	return msg
}
