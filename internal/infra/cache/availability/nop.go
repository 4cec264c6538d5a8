package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// NopCache используется, когда Redis отключен: всегда промах
type NopCache struct{}

func (NopCache) Get(context.Context, int64, time.Time) ([]*domain.Booking, bool, error) {
	return nil, false, nil
}

func (NopCache) Set(context.Context, int64, time.Time, []*domain.Booking) error {
	return nil
}

func (NopCache) Invalidate(context.Context, int64, ...time.Time) error {
	return nil
}
