package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroundBooking/pkg/psqlbuilder"
)

const (
	// pgExclusionViolation нарушение exclusion constraint (пересечение интервалов)
	pgExclusionViolation = "23P01"
	// pgForeignKeyViolation нарушение внешнего ключа
	pgForeignKeyViolation = "23503"
)

var bookingColumns = []string{
	"id",
	"ground_id",
	"user_id",
	"booking_date",
	"start_time",
	"end_time",
	"status",
	"payment_status",
	"total_amount",
	"notes",
	"confirmed_at",
	"confirmed_by",
	"cancelled_at",
	"cancelled_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
//
// Пересечение с блокирующим бронированием отклоняется exclusion constraint
// и возвращается как ErrSlotNotAvailable. Ошибки сериализации оборачиваются через %w,
// чтобы txmanager мог повторить транзакцию.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"ground_id",
			"user_id",
			"booking_date",
			"start_time",
			"end_time",
			"status",
			"payment_status",
			"total_amount",
			"notes",
			"confirmed_at",
			"confirmed_by",
		).
		Values(
			booking.GroundID,
			booking.UserID,
			booking.BookingDate.Format(domain.DateFormat),
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.PaymentStatus,
			booking.TotalAmount,
			booking.Notes,
			booking.ConfirmedAt,
			booking.ConfirmedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, mapWriteError("Create - execute insert", err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByGroundAndDate получает блокирующие бронирования площадки на дату
// (pending, confirmed, active, completed), отсортированные по времени начала.
// Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) GetByGroundAndDate(ctx context.Context, groundID int64, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"ground_id": groundID}).
		Where(squirrel.Eq{"booking_date": date.Format(domain.DateFormat)}).
		Where(squirrel.Eq{"status": domain.StatusStrings(domain.BlockingStatuses)}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByGroundAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByGroundAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetWithFilter получает бронирования с гибкой фильтрацией
// Поддерживает фильтрацию по:
// - Площадке и пользователю (GroundID, UserID) - опционально
// - Периоду (StartDate, EndDate) - опционально
// - Статусу (Status) - опционально
// - Включению отклонённых, отменённых и истёкших (IncludeInactive)
//
// Для одной даты результат сортируется по времени начала, иначе сначала новые.
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildFilterQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListSweepCandidates получает бронирования, удерживающие слот (pending, confirmed, active),
// с датой не позже upToDate. Проверку окончания по времени выполняет вызывающий.
func (r *Repository) ListSweepCandidates(ctx context.Context, upToDate time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusStrings(domain.OccupyingStatuses)}).
		Where(squirrel.LtOrEq{"booking_date": upToDate.Format(domain.DateFormat)}).
		OrderBy("booking_date ASC, end_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListSweepCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSweepCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus переводит бронирование из статуса expected в next.
// Обновление условное (WHERE status = expected): если статус уже изменился,
// возвращается ErrStaleState, если бронирования нет - ErrBookingNotFound.
// Для confirmed фиксируются confirmed_at/confirmed_by, для cancelled и rejected - cancelled_at/cancelled_by.
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id int64,
	expected, next domain.BookingStatus,
	actorID int64,
	at time.Time,
) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", next).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": expected})

	switch next {
	case domain.StatusConfirmed:
		updateBuilder = updateBuilder.Set("confirmed_at", at).Set("confirmed_by", actorID)
	case domain.StatusCancelled, domain.StatusRejected:
		updateBuilder = updateBuilder.Set("cancelled_at", at).Set("cancelled_by", actorID)
	}

	query, args, err := updateBuilder.Suffix(returningColumns()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missingOrStale(ctx, id, "UpdateStatus")
	}
	if err != nil {
		return nil, mapWriteError("UpdateStatus - execute update", err)
	}

	return booking, nil
}

// UpdateInterval переносит бронирование на новые дату и интервал, пересчитывая стоимость.
// Условие по статусу и ошибки - как в UpdateStatus; пересечение - ErrSlotNotAvailable.
func (r *Repository) UpdateInterval(
	ctx context.Context,
	id int64,
	expected domain.BookingStatus,
	date time.Time,
	interval domain.Interval,
	totalAmount float64,
	at time.Time,
) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("booking_date", date.Format(domain.DateFormat)).
		Set("start_time", interval.Start).
		Set("end_time", interval.End).
		Set("total_amount", totalAmount).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": expected}).
		Suffix(returningColumns()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateInterval - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missingOrStale(ctx, id, "UpdateInterval")
	}
	if err != nil {
		return nil, mapWriteError("UpdateInterval - execute update", err)
	}

	return booking, nil
}

// SetPaymentStatus обновляет отметку об оплате
func (r *Repository) SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetPaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetPaymentStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Delete удаляет бронирование (физическое удаление, только для администратора)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// LockSlot берёт transaction-level advisory lock на пару (площадка, дата).
// Сериализует захваты одного ключа между инстансами сервиса;
// блокировка снимается при фиксации или откате транзакции.
func (r *Repository) LockSlot(ctx context.Context, groundID int64, date time.Time) error {
	executor, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: LockSlot", ErrTransaction)
	}

	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(hashtextextended(?, 0))", domain.SlotKey(groundID, date))).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: LockSlot - build query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockSlot - execute: %w", ErrExecQuery, err)
	}

	return nil
}

// missingOrStale различает отсутствующее бронирование и изменившийся статус
func (r *Repository) missingOrStale(ctx context.Context, id int64, op string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build exists query: %v", ErrBuildQuery, op, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return fmt.Errorf("%w: %s - scan exists: %w", ErrScanRow, op, err)
	}

	if !exists {
		return ErrBookingNotFound
	}
	return ErrStaleState
}

func buildFilterQuery(filter domain.BookingsFilter) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select(bookingColumns...).From("bookings")

	if filter.GroundID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"ground_id": *filter.GroundID})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": filter.EndDate.Format(domain.DateFormat)})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusStrings(domain.InactiveStatuses)})
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC")
	}

	return selectBuilder
}

func returningColumns() string {
	suffix := "RETURNING "
	for i, c := range bookingColumns {
		if i > 0 {
			suffix += ", "
		}
		suffix += c
	}
	return suffix
}

// mapWriteError переводит коды ошибок PostgreSQL в ошибки репозитория.
// Исходная ошибка сохраняется в цепочке для txmanager.IsRetryable.
func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgExclusionViolation:
			return fmt.Errorf("%w: %s: %w", ErrSlotNotAvailable, op, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s: %w", ErrGroundNotFound, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrExecQuery, op, err)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.GroundID,
		&booking.UserID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.TotalAmount,
		&booking.Notes,
		&booking.ConfirmedAt,
		&booking.ConfirmedBy,
		&booking.CancelledAt,
		&booking.CancelledBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
