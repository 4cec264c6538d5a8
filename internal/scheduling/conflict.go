// Package scheduling содержит чистые функции расчёта доступности слотов и обнаружения конфликтов.
// Оба расчёта используют один предикат пересечения domain.Interval.Overlaps и один
// набор блокирующих статусов, поэтому слот "available" тогда и только тогда, когда конфликта нет.
package scheduling

import (
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// FindConflict возвращает первое бронирование, блокирующее интервал на площадке и дате.
// Блокируют статусы pending, confirmed, active и completed.
// excludeID исключает переносимое бронирование из проверки.
func FindConflict(
	existing []*domain.Booking,
	groundID int64,
	date time.Time,
	interval domain.Interval,
	excludeID *int64,
) *domain.Booking {
	for _, b := range existing {
		if b == nil || b.GroundID != groundID || !SameDay(b.BookingDate, date) {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if !b.Status.BlocksSlot() {
			continue
		}
		if b.Interval().Overlaps(interval) {
			return b
		}
	}
	return nil
}

// HasConflict возвращает true, если интервал пересекается с блокирующим бронированием
func HasConflict(
	existing []*domain.Booking,
	groundID int64,
	date time.Time,
	interval domain.Interval,
	excludeID *int64,
) bool {
	return FindConflict(existing, groundID, date, interval, excludeID) != nil
}

// SameDay проверяет, что две даты относятся к одному календарному дню
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateOnly отбрасывает время, оставляя календарный день в UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
