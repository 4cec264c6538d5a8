package complete_elapsed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/booking"
)

const (
	runOK      = "ok"
	runPartial = "partial"
	runError   = "error"
)

// UseCase sweep: завершает прошедшие подтверждённые бронирования
// и переводит в expired неподтверждённые
type UseCase struct {
	bookingRepo BookingRepository
	notifier    Notifier
	cache       AvailabilityCache
	metrics     Metrics
	location    *time.Location
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	notifier Notifier,
	cache AvailabilityCache,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo: bookingRepo,
		notifier:    notifier,
		cache:       cache,
		metrics:     metrics,
		location:    location,
		logger:      logger,
	}
}

// Execute обрабатывает все бронирования, окончание которых <= now.
// Повторный запуск с тем же now ничего не меняет.
func (uc *UseCase) Execute(ctx context.Context, now time.Time) (*Report, error) {
	now = now.In(uc.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// 1. Кандидаты с датой не позже сегодняшней
	candidates, err := uc.bookingRepo.ListSweepCandidates(ctx, today)
	if err != nil {
		uc.metrics.IncSweepRun(runError)
		uc.logger.Error("CompleteElapsed: failed to list candidates: %v", err)
		return nil, fmt.Errorf("%w: failed to list candidates: %v", ErrInternal, err)
	}

	report := &Report{Scanned: len(candidates)}
	system := domain.SystemActor()

	for _, b := range candidates {
		// 2. Только бронирования, которые уже закончились
		if b.EndsAt(uc.location).After(now) {
			continue
		}

		target, eventType := targetFor(b.Status)
		if err := domain.ValidateTransition(b.Status, target, system.Role(), false); err != nil {
			uc.logger.Warn("CompleteElapsed: booking=%d: %v", b.ID, err)
			continue
		}

		// 3. Условное обновление: конкурентное подтверждение или отмена побеждает
		updated, err := uc.bookingRepo.UpdateStatus(ctx, b.ID, b.Status, target, system.ID, now)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrStaleState) || errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Info("CompleteElapsed: booking=%d changed concurrently, skipped", b.ID)
				report.Skipped++
				continue
			}
			uc.logger.Error("CompleteElapsed: failed to move booking=%d %s -> %s: %v", b.ID, b.Status, target, err)
			report.Failed++
			continue
		}

		if target == domain.StatusCompleted {
			report.Completed++
		} else {
			report.Expired++
		}
		uc.metrics.IncStatusTransition(string(b.Status), string(target))

		if err := uc.cache.Invalidate(ctx, updated.GroundID, updated.BookingDate); err != nil {
			uc.logger.Warn("CompleteElapsed: failed to invalidate availability cache: %v", err)
		}
		uc.notifier.Notify(ctx, domain.NewBookingEvent(uuid.NewString(), eventType, updated, system.ID, now))
	}

	if report.Failed > 0 {
		uc.metrics.IncSweepRun(runPartial)
	} else {
		uc.metrics.IncSweepRun(runOK)
	}

	uc.logger.Info("CompleteElapsed: scanned=%d, completed=%d, expired=%d, skipped=%d, failed=%d",
		report.Scanned, report.Completed, report.Expired, report.Skipped, report.Failed)

	return report, nil
}

// targetFor подтверждённые завершаются, неподтверждённые истекают
func targetFor(status domain.BookingStatus) (domain.BookingStatus, domain.EventType) {
	if status.IsConfirmed() {
		return domain.StatusCompleted, domain.EventBookingCompleted
	}
	return domain.StatusExpired, domain.EventBookingExpired
}
