package direct_booking

import (
	"fmt"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-GroundBooking/internal/usecase/create_booking"
)

// DirectBookingRequest HTTP request model
type DirectBookingRequest struct {
	UserID      *int64                 `json:"userId,omitempty"` // Для кого бронирование, по умолчанию администратор
	GroundID    int64                  `json:"groundId"`
	BookingDate string                 `json:"bookingDate"`
	Slots       []handlers.SlotRequest `json:"slots"`
	Notes       *string                `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *DirectBookingRequest) ToUseCaseRequest(actor domain.Actor) (*createBooking.Request, error) {
	bookingDate, err := handlers.ParseDate(r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("bookingDate: %w", err)
	}

	slots, err := handlers.ParseSlots(r.Slots)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		Actor:    actor,
		GroundID: r.GroundID,
		Date:     bookingDate,
		Slots:    slots,
		Notes:    r.Notes,
	}
	if r.UserID != nil {
		req.UserID = *r.UserID
	}
	return req, nil
}
