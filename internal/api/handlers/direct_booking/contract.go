package direct_booking

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-GroundBooking/internal/usecase/create_booking"
)

type DirectBookingUseCase interface {
	ExecuteDirect(ctx context.Context, req *createBooking.Request) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
