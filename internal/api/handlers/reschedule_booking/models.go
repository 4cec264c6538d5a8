package reschedule_booking

import (
	"fmt"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	rescheduleBooking "github.com/m04kA/SMC-GroundBooking/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	BookingDate string                 `json:"bookingDate"` // Новая дата "2025-10-15"
	Slots       []handlers.SlotRequest `json:"slots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(actor domain.Actor, bookingID int64) (*rescheduleBooking.Request, error) {
	bookingDate, err := handlers.ParseDate(r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("bookingDate: %w", err)
	}

	slots, err := handlers.ParseSlots(r.Slots)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		Actor:     actor,
		BookingID: bookingID,
		Date:      bookingDate,
		Slots:     slots,
	}, nil
}
