package reschedule_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/scheduling"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(req.Slots) == 0 {
		return fmt.Errorf("%w: at least one slot is required", ErrInvalidInput)
	}

	if len(req.Slots) > domain.MaxSlotsPerSelection {
		return fmt.Errorf("%w: at most %d slots per booking", ErrInvalidInput, domain.MaxSlotsPerSelection)
	}

	return nil
}

// validateDate проверяет, что новая дата не в прошлом и не дальше advanceBookingDays
func validateDate(bookingDate time.Time, now time.Time, advanceBookingDays int) error {
	date := scheduling.DateOnly(bookingDate)
	today := scheduling.DateOnly(now)

	if date.Before(today) {
		return ErrInvalidDate
	}

	if advanceBookingDays > 0 && date.After(today.AddDate(0, 0, advanceBookingDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateNotPast проверяет, что первый слот нового интервала ещё не закончился
func validateNotPast(date time.Time, interval domain.Interval, now time.Time, loc *time.Location) error {
	firstEnd, err := interval.Start.AddMinutes(domain.SlotUnitMinutes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !firstEnd.On(date, loc).After(now) {
		return fmt.Errorf("%w: %s on %s", ErrSlotInPast, interval, date.Format(domain.DateFormat))
	}
	return nil
}
