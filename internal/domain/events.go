package domain

import "time"

// EventType booking state change kind
type EventType string

const (
	EventBookingCreated     EventType = "booking.created"
	EventBookingConfirmed   EventType = "booking.confirmed"
	EventBookingRejected    EventType = "booking.rejected"
	EventBookingCancelled   EventType = "booking.cancelled"
	EventBookingRescheduled EventType = "booking.rescheduled"
	EventBookingCompleted   EventType = "booking.completed"
	EventBookingExpired     EventType = "booking.expired"
	EventBookingPurged      EventType = "booking.purged"
)

// BookingEvent is emitted after a booking write commits.
// Consumers deduplicate by (BookingID, Type); ID is unique per emission.
type BookingEvent struct {
	ID          string
	Type        EventType
	BookingID   int64
	GroundID    int64
	UserID      int64
	ActorID     int64
	Status      BookingStatus
	BookingDate time.Time
	StartTime   string
	EndTime     string
	TotalAmount float64
	// PreviousDate/PreviousStart/PreviousEnd are set for reschedules
	PreviousDate  *time.Time
	PreviousStart *string
	PreviousEnd   *string
	OccurredAt    time.Time
}

// NewBookingEvent builds an event from the booking state after the write
func NewBookingEvent(id string, eventType EventType, b *Booking, actorID int64, at time.Time) BookingEvent {
	return BookingEvent{
		ID:          id,
		Type:        eventType,
		BookingID:   b.ID,
		GroundID:    b.GroundID,
		UserID:      b.UserID,
		ActorID:     actorID,
		Status:      b.Status,
		BookingDate: b.BookingDate,
		StartTime:   b.StartTime.String(),
		EndTime:     b.EndTime.String(),
		TotalAmount: b.TotalAmount,
		OccurredAt:  at,
	}
}
