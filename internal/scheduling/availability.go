package scheduling

import (
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// Occupancy состояние слота с точки зрения запрашивающего пользователя
type Occupancy string

const (
	OccupancyAvailable     Occupancy = "available"
	OccupancyPast          Occupancy = "past"
	OccupancyBookedByOther Occupancy = "booked_by_other"
	OccupancyOwnPending    Occupancy = "own_pending"
	OccupancyOwnConfirmed  Occupancy = "own_confirmed"
)

// SlotState слот с аннотацией занятости (read-model, не хранится)
type SlotState struct {
	domain.Slot
	Occupancy  Occupancy
	OccupantID *int64
	BookingID  *int64
}

// IsAvailable возвращает true, если слот можно забронировать
func (s SlotState) IsAvailable() bool {
	return s.Occupancy == OccupancyAvailable
}

// AvailabilityInput входные данные расчёта доступности
type AvailabilityInput struct {
	Slots       []domain.Slot
	Bookings    []*domain.Booking // бронирования площадки на дату
	GroundID    int64
	Date        time.Time
	Now         time.Time
	Location    *time.Location
	RequesterID int64 // 0 - анонимный пользователь
}

// Availability аннотирует каждый слот окна состоянием занятости.
// Чистая функция: одинаковые входные данные дают одинаковый результат.
//
// Правила (по приоритету):
//   - past: дата сегодня и конец слота <= now, либо дата в прошлом
//   - booked_by_other: пересекается блокирующее бронирование другого пользователя
//   - own_confirmed / own_pending: пересекается бронирование запрашивающего
//   - available: иначе
func Availability(in AvailabilityInput) []SlotState {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	now := in.Now.In(loc)
	past := dayPosition(in.Date, now)

	result := make([]SlotState, len(in.Slots))
	for i, slot := range in.Slots {
		state := SlotState{Slot: slot, Occupancy: OccupancyAvailable}

		switch {
		case past < 0:
			state.Occupancy = OccupancyPast
		case past == 0 && !slot.End.On(in.Date, loc).After(now):
			state.Occupancy = OccupancyPast
		default:
			annotate(&state, in)
		}

		result[i] = state
	}

	return result
}

// IntervalAvailable возвращает true, если все слоты внутри интервала доступны
func IntervalAvailable(states []SlotState, interval domain.Interval) bool {
	covered := 0
	for _, s := range states {
		if !interval.Overlaps(s.Interval) {
			continue
		}
		if !s.IsAvailable() {
			return false
		}
		covered += s.DurationMinutes()
	}
	return covered == interval.DurationMinutes()
}

func annotate(state *SlotState, in AvailabilityInput) {
	var own *domain.Booking

	for _, b := range in.Bookings {
		if b == nil || b.GroundID != in.GroundID || !SameDay(b.BookingDate, in.Date) {
			continue
		}
		if !b.Status.BlocksSlot() || !b.Interval().Overlaps(state.Interval) {
			continue
		}

		if in.RequesterID == 0 || !b.IsOwnedBy(in.RequesterID) {
			state.Occupancy = OccupancyBookedByOther
			state.OccupantID = &b.UserID
			state.BookingID = &b.ID
			return
		}

		if own == nil || (!own.Status.IsConfirmed() && b.Status != domain.StatusPending) {
			own = b
		}
	}

	if own == nil {
		return
	}

	state.OccupantID = &own.UserID
	state.BookingID = &own.ID
	if own.Status == domain.StatusPending {
		state.Occupancy = OccupancyOwnPending
	} else {
		state.Occupancy = OccupancyOwnConfirmed
	}
}

// dayPosition сравнивает календарный день date с сегодняшним днем в now: -1 прошлое, 0 сегодня, 1 будущее
func dayPosition(date, now time.Time) int {
	d := DateOnly(date)
	today := DateOnly(now)
	switch {
	case d.Before(today):
		return -1
	case d.After(today):
		return 1
	default:
		return 0
	}
}
