package change_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-GroundBooking/internal/scheduling"
	"github.com/m04kA/SMC-GroundBooking/internal/usecase/claim"
)

// UseCase use case смены статуса бронирования (подтверждение, отклонение, отмена)
type UseCase struct {
	bookingRepo  BookingRepository
	guard        ClaimGuard
	txManager    TransactionManager
	notifier     Notifier
	cache        AvailabilityCache
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	guard ClaimGuard,
	txManager TransactionManager,
	notifier Notifier,
	cache AvailabilityCache,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		guard:        guard,
		txManager:    txManager,
		notifier:     notifier,
		cache:        cache,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Confirm переводит pending -> confirmed (только администратор).
// Фиксирует confirmed_at/confirmed_by. Слот перепроверяется под блокировкой ключа.
func (uc *UseCase) Confirm(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	return uc.transition(ctx, actor, bookingID, domain.StatusConfirmed, domain.EventBookingConfirmed)
}

// Reject переводит pending -> rejected (только администратор)
func (uc *UseCase) Reject(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	return uc.transition(ctx, actor, bookingID, domain.StatusRejected, domain.EventBookingRejected)
}

// Cancel отменяет бронирование.
// Владелец может отменить только pending бронирование, администратор - pending или confirmed.
func (uc *UseCase) Cancel(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	return uc.transition(ctx, actor, bookingID, domain.StatusCancelled, domain.EventBookingCancelled)
}

func (uc *UseCase) transition(
	ctx context.Context,
	actor domain.Actor,
	bookingID int64,
	to domain.BookingStatus,
	eventType domain.EventType,
) (*domain.Booking, error) {
	uc.logger.Info("ChangeStatus: booking=%d -> %s by actor=%d (%s)", bookingID, to, actor.ID, actor.Role())

	// 1. Валидация входных данных
	if bookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	// 2. Читаем бронирование, чтобы определить ключ блокировки
	current, err := uc.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Ранний отказ без блокировок, окончательная проверка выполняется внутри транзакции
	if err := domain.ValidateTransition(current.Status, to, actor.Role(), current.IsOwnedBy(actor.ID)); err != nil {
		uc.logger.Warn("ChangeStatus: booking=%d %s -> %s rejected: %v", bookingID, current.Status, to, err)
		return nil, err
	}

	var (
		from   domain.BookingStatus
		result *domain.Booking
	)

	apply := func(txCtx context.Context) error {
		// 3. Перечитываем статус непосредственно перед переходом (FOR UPDATE)
		fresh, err := uc.getBooking(txCtx, bookingID)
		if err != nil {
			return err
		}
		if fresh.GroundID != current.GroundID || !scheduling.SameDay(fresh.BookingDate, current.BookingDate) {
			uc.logger.Warn("ChangeStatus: booking=%d was moved concurrently", bookingID)
			return domain.ErrStaleState
		}

		// 4. Проверяем переход по таблице жизненного цикла
		if err := domain.ValidateTransition(fresh.Status, to, actor.Role(), fresh.IsOwnedBy(actor.ID)); err != nil {
			uc.logger.Warn("ChangeStatus: booking=%d %s -> %s rejected: %v", bookingID, fresh.Status, to, err)
			return err
		}

		// 5. Подтверждение занимает слот: перепроверяем конфликт
		if to == domain.StatusConfirmed {
			existing, err := uc.bookingRepo.GetByGroundAndDate(txCtx, fresh.GroundID, fresh.BookingDate)
			if err != nil {
				uc.logger.Error("ChangeStatus: failed to get bookings: %v", err)
				return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
			}
			if conflict := scheduling.FindConflict(existing, fresh.GroundID, fresh.BookingDate, fresh.Interval(), &fresh.ID); conflict != nil {
				uc.logger.Warn("ChangeStatus: booking=%d overlaps booking id=%d", bookingID, conflict.ID)
				return domain.ErrSlotUnavailable
			}
		}

		// 6. Условное обновление (WHERE status = ожидаемый)
		updated, err := uc.bookingRepo.UpdateStatus(txCtx, bookingID, fresh.Status, to, actor.ID, now)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrStaleState):
				uc.logger.Warn("ChangeStatus: booking=%d status changed concurrently", bookingID)
				return domain.ErrStaleState
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return domain.ErrBookingNotFound
			case errors.Is(err, bookingRepo.ErrSlotNotAvailable):
				return domain.ErrSlotUnavailable
			}
			uc.logger.Error("ChangeStatus: failed to update booking=%d: %v", bookingID, err)
			return fmt.Errorf("%w: failed to update status: %w", ErrInternal, err)
		}

		from = fresh.Status
		result = updated
		return nil
	}

	if to == domain.StatusConfirmed {
		key := claim.Key{GroundID: current.GroundID, Date: current.BookingDate}
		err = uc.guard.Run(ctx, []claim.Key{key}, apply)
	} else {
		err = uc.txManager.Do(ctx, apply)
	}
	if err != nil {
		return nil, err
	}

	uc.metrics.IncStatusTransition(string(from), string(to))
	uc.logger.Info("ChangeStatus: booking=%d %s -> %s", bookingID, from, to)

	// 7. После фиксации: инвалидируем проекцию и отправляем событие
	if err := uc.cache.Invalidate(ctx, result.GroundID, result.BookingDate); err != nil {
		uc.logger.Warn("ChangeStatus: failed to invalidate availability cache: %v", err)
	}

	uc.notifier.Notify(ctx, domain.NewBookingEvent(uuid.NewString(), eventType, result, actor.ID, now))

	return result, nil
}

func (uc *UseCase) getBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ChangeStatus: booking id=%d not found", bookingID)
			return nil, domain.ErrBookingNotFound
		}
		uc.logger.Error("ChangeStatus: failed to get booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
	}
	return booking, nil
}
