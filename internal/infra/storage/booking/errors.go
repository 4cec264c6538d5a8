package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с блокирующим бронированием
	// (нарушение exclusion constraint bookings_no_overlap)
	ErrSlotNotAvailable = errors.New("booking.repository: slot not available")

	// ErrStaleState возвращается, когда статус бронирования изменился после чтения
	ErrStaleState = errors.New("booking.repository: booking state changed")

	// ErrGroundNotFound возвращается при нарушении внешнего ключа на площадку
	ErrGroundNotFound = errors.New("booking.repository: ground not found")

	// ErrTransaction возвращается при попытке выполнить операцию вне транзакции
	ErrTransaction = errors.New("booking.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
