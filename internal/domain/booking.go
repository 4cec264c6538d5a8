package domain

import (
	"time"

	"github.com/m04kA/SMC-GroundBooking/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	// StatusActive legacy alias of confirmed
	StatusActive    BookingStatus = "active"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusExpired   BookingStatus = "expired"
)

// PaymentStatus tracks whether the booking was paid (no gateway integration)
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// ParseBookingStatus validates a status string
func ParseBookingStatus(s string) (BookingStatus, bool) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// IsConfirmed returns true for confirmed and its legacy alias
func (s BookingStatus) IsConfirmed() bool {
	return s == StatusConfirmed || s == StatusActive
}

// IsTerminal returns true if no transition may leave the status
func (s BookingStatus) IsTerminal() bool {
	return containsStatus(TerminalStatuses, s)
}

// OccupiesSlot returns true if the status holds its slot
func (s BookingStatus) OccupiesSlot() bool {
	return containsStatus(OccupyingStatuses, s)
}

// BlocksSlot returns true if the status prevents overlapping claims
func (s BookingStatus) BlocksSlot() bool {
	return containsStatus(BlockingStatuses, s)
}

// Booking represents a reservation of contiguous slots on a ground
type Booking struct {
	ID            int64
	GroundID      int64
	UserID        int64
	BookingDate   time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
	Status        BookingStatus
	PaymentStatus PaymentStatus
	TotalAmount   float64
	Notes         *string

	ConfirmedAt *time.Time
	ConfirmedBy *int64
	CancelledAt *time.Time
	CancelledBy *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the half-open [start, end) interval of the booking
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// EndsAt returns the instant the booking ends in loc
func (b *Booking) EndsAt(loc *time.Location) time.Time {
	return b.EndTime.On(b.BookingDate, loc)
}

// StartsAt returns the instant the booking starts in loc
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	return b.StartTime.On(b.BookingDate, loc)
}

// IsOwnedBy returns true if the user placed the booking
func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.UserID == userID
}

// BookingsFilter filter for booking listings
type BookingsFilter struct {
	GroundID  *int64         // Фильтр по площадке (опционально)
	UserID    *int64         // Фильтр по пользователю (опционально)
	StartDate *time.Time     // Начало периода (опционально)
	EndDate   *time.Time     // Конец периода (опционально)
	Status    *BookingStatus // Фильтр по статусу (опционально)
	// IncludeInactive включает отклонённые, отменённые и истёкшие бронирования
	IncludeInactive bool
}

func containsStatus(list []BookingStatus, s BookingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
