package purge_booking

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

type BookingService interface {
	Purge(ctx context.Context, actor domain.Actor, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
