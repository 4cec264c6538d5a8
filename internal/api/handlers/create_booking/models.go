package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-GroundBooking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	GroundID    int64                  `json:"groundId"`
	BookingDate string                 `json:"bookingDate"` // "2025-10-15"
	Slots       []handlers.SlotRequest `json:"slots"`
	Notes       *string                `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты и слотов)
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) (*createBooking.Request, error) {
	bookingDate, err := handlers.ParseDate(r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("bookingDate: %w", err)
	}

	slots, err := handlers.ParseSlots(r.Slots)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Actor:    actor,
		UserID:   actor.ID,
		GroundID: r.GroundID,
		Date:     bookingDate,
		Slots:    slots,
		Notes:    r.Notes,
	}, nil
}
