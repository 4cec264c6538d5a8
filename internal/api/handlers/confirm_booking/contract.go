package confirm_booking

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

type ConfirmBookingUseCase interface {
	Confirm(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
