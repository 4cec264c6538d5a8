package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

type CancelBookingUseCase interface {
	Cancel(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
