package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/scheduling"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.GroundID <= 0 {
		return fmt.Errorf("%w: groundID must be positive", ErrInvalidInput)
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

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и не дальше advanceBookingDays
func validateDate(bookingDate time.Time, now time.Time, advanceBookingDays int) error {
	date := scheduling.DateOnly(bookingDate)
	today := scheduling.DateOnly(now)

	if date.Before(today) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if advanceBookingDays == 0 {
		return nil
	}

	if date.After(today.AddDate(0, 0, advanceBookingDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateNotPast проверяет, что первый слот интервала ещё не закончился.
// Слот, который уже идёт, в сетке доступности считается свободным, поэтому его можно занять.
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
