package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/booking"
	groundRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/ground"
	"github.com/m04kA/SMC-GroundBooking/internal/scheduling"
	"github.com/m04kA/SMC-GroundBooking/internal/usecase/claim"
	"github.com/m04kA/SMC-GroundBooking/pkg/ptr"
)

const (
	operationReschedule = "reschedule"

	outcomeRescheduled = "rescheduled"
	outcomeConflict    = "conflict"
	outcomeError       = "error"
)

// UseCase use case переноса бронирования на другую дату или интервал
type UseCase struct {
	bookingRepo  BookingRepository
	groundRepo   GroundRepository
	guard        ClaimGuard
	notifier     Notifier
	cache        AvailabilityCache
	metrics      Metrics
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	groundRepo GroundRepository,
	guard ClaimGuard,
	notifier Notifier,
	cache AvailabilityCache,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		groundRepo:   groundRepo,
		guard:        guard,
		notifier:     notifier,
		cache:        cache,
		metrics:      metrics,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переносит бронирование, сохраняя его статус.
// Проверка конфликта исключает само бронирование, поэтому сдвиг внутри
// собственного интервала допустим. При переносе на другую дату блокируются оба ключа.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("RescheduleBooking: actor=%d, booking=%d, date=%s, slots=%d",
		req.Actor.ID, req.BookingID, req.Date.Format(domain.DateFormat), len(req.Slots))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время в часовом поясе площадок
	now := uc.timeProvider.Now().In(uc.settings.Location)
	date := scheduling.DateOnly(req.Date)

	if err := validateDate(date, now, uc.settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("RescheduleBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Текущее бронирование, из него берется старый ключ
	current, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanReschedule(current.Status, req.Actor.Role(), current.IsOwnedBy(req.Actor.ID)); err != nil {
		uc.logger.Warn("RescheduleBooking: booking=%d (%s) rejected: %v", current.ID, current.Status, err)
		return nil, err
	}

	// 4. Площадка определяет окно и цену
	ground, err := uc.groundRepo.GetByID(ctx, current.GroundID)
	if err != nil {
		if errors.Is(err, groundRepo.ErrGroundNotFound) {
			return nil, domain.ErrGroundNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get ground id=%d: %v", current.GroundID, err)
		return nil, fmt.Errorf("%w: failed to get ground: %v", ErrInternal, err)
	}

	if !ground.AcceptsBookings() {
		uc.logger.Warn("RescheduleBooking: ground id=%d is inactive", ground.ID)
		return nil, domain.ErrGroundInactive
	}

	// 5. Новый интервал и стоимость
	interval, amount, err := domain.ResolveSelection(ground.Category, uc.settings.Pricing, req.Slots)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: invalid selection: %v", err)
		return nil, err
	}

	// Прошедшее время отсекается до проверки конфликта: completed бронирование
	// из прошлого дает ErrSlotInPast, а не ErrSlotUnavailable
	if err := validateNotPast(date, interval, now, uc.settings.Location); err != nil {
		uc.logger.Warn("RescheduleBooking: %v", err)
		return nil, err
	}

	keys := []claim.Key{
		{GroundID: current.GroundID, Date: current.BookingDate},
		{GroundID: current.GroundID, Date: date},
	}

	var result *domain.Booking

	// 6. Перенос под блокировкой старого и нового ключей
	err = uc.guard.Run(ctx, keys, func(txCtx context.Context) error {
		fresh, err := uc.getBooking(txCtx, req.BookingID)
		if err != nil {
			return err
		}
		if !scheduling.SameDay(fresh.BookingDate, current.BookingDate) {
			uc.logger.Warn("RescheduleBooking: booking=%d was moved concurrently", fresh.ID)
			return domain.ErrStaleState
		}

		if err := domain.CanReschedule(fresh.Status, req.Actor.Role(), fresh.IsOwnedBy(req.Actor.ID)); err != nil {
			return err
		}

		existing, err := uc.bookingRepo.GetByGroundAndDate(txCtx, fresh.GroundID, date)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		if conflict := scheduling.FindConflict(existing, fresh.GroundID, date, interval, ptr.Ptr(fresh.ID)); conflict != nil {
			uc.logger.Warn("RescheduleBooking: %s overlaps booking id=%d (%s)", interval, conflict.ID, conflict.Interval())
			return domain.ErrSlotUnavailable
		}

		updated, err := uc.bookingRepo.UpdateInterval(txCtx, fresh.ID, fresh.Status, date, interval, amount, now)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrSlotNotAvailable):
				uc.logger.Warn("RescheduleBooking: storage rejected overlapping interval %s", interval)
				return domain.ErrSlotUnavailable
			case errors.Is(err, bookingRepo.ErrStaleState):
				return domain.ErrStaleState
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return domain.ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to update booking=%d: %v", fresh.ID, err)
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		current = fresh
		result = updated
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			uc.metrics.IncSlotClaim(operationReschedule, outcomeConflict)
		} else {
			uc.metrics.IncSlotClaim(operationReschedule, outcomeError)
		}
		return nil, err
	}

	uc.metrics.IncSlotClaim(operationReschedule, outcomeRescheduled)
	uc.logger.Info("RescheduleBooking: booking=%d moved from %s %s to %s %s",
		result.ID, current.BookingDate.Format(domain.DateFormat), current.Interval(),
		result.BookingDate.Format(domain.DateFormat), result.Interval())

	// 7. После фиксации: инвалидируем обе даты и отправляем событие
	if err := uc.cache.Invalidate(ctx, result.GroundID, current.BookingDate, result.BookingDate); err != nil {
		uc.logger.Warn("RescheduleBooking: failed to invalidate availability cache: %v", err)
	}

	event := domain.NewBookingEvent(uuid.NewString(), domain.EventBookingRescheduled, result, req.Actor.ID, now)
	event.PreviousDate = ptr.Ptr(current.BookingDate)
	event.PreviousStart = ptr.Ptr(current.StartTime.String())
	event.PreviousEnd = ptr.Ptr(current.EndTime.String())
	uc.notifier.Notify(ctx, event)

	return result, nil
}

func (uc *UseCase) getBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%d not found", bookingID)
			return nil, domain.ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
	}
	return booking, nil
}
