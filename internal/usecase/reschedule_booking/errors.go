package reschedule_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInvalidDate возвращается, если новая дата в прошлом
	ErrInvalidDate = errors.New("reschedule_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("reschedule_booking: date is too far in the future")

	// ErrSlotInPast возвращается, если новый интервал уже начался
	ErrSlotInPast = errors.New("reschedule_booking: selected slot is in the past")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
