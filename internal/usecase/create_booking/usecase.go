package create_booking

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
	operationCreate = "create"
	operationDirect = "direct"

	outcomeCreated  = "created"
	outcomeConflict = "conflict"
	outcomeError    = "error"
)

// UseCase use case для создания бронирования (пользователем или администратором напрямую)
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

// Execute создает бронирование пользователя в статусе pending.
// Бронирование создаётся для самого актора, req.UserID игнорируется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	r := *req
	r.UserID = req.Actor.ID
	return uc.claim(ctx, &r, domain.RoleRequester, operationCreate, domain.EventBookingCreated)
}

// ExecuteDirect создает бронирование администратора сразу в статусе confirmed
// (бронирование на месте, без подтверждения). Если req.UserID не указан,
// бронирование оформляется на администратора.
func (uc *UseCase) ExecuteDirect(ctx context.Context, req *Request) (*domain.Booking, error) {
	if req.Actor.Role() != domain.RoleAdmin {
		uc.logger.Warn("CreateBooking: direct booking denied for user=%d", req.Actor.ID)
		return nil, fmt.Errorf("%w: direct booking requires admin", domain.ErrPermissionDenied)
	}

	r := *req
	if r.UserID == 0 {
		r.UserID = req.Actor.ID
	}
	return uc.claim(ctx, &r, domain.RoleAdmin, operationDirect, domain.EventBookingConfirmed)
}

func (uc *UseCase) claim(
	ctx context.Context,
	req *Request,
	role domain.Role,
	operation string,
	eventType domain.EventType,
) (*domain.Booking, error) {
	uc.logger.Info("CreateBooking[%s]: actor=%d, user=%d, ground=%d, date=%s, slots=%d",
		operation, req.Actor.ID, req.UserID, req.GroundID, req.Date.Format(domain.DateFormat), len(req.Slots))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking[%s]: validation failed: %v", operation, err)
		return nil, err
	}

	status, err := domain.InitialStatusFor(role)
	if err != nil {
		return nil, err
	}

	// 2. Получаем текущее время в часовом поясе площадок
	now := uc.timeProvider.Now().In(uc.settings.Location)
	date := scheduling.DateOnly(req.Date)

	// 3. Валидация даты
	if err := validateDate(date, now, uc.settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking[%s]: date validation failed: %v", operation, err)
		return nil, err
	}

	// 4. Получаем площадку
	ground, err := uc.groundRepo.GetByID(ctx, req.GroundID)
	if err != nil {
		if errors.Is(err, groundRepo.ErrGroundNotFound) {
			uc.logger.Warn("CreateBooking[%s]: ground id=%d not found", operation, req.GroundID)
			return nil, domain.ErrGroundNotFound
		}
		uc.logger.Error("CreateBooking[%s]: failed to get ground id=%d: %v", operation, req.GroundID, err)
		return nil, fmt.Errorf("%w: failed to get ground: %v", ErrInternal, err)
	}

	if !ground.AcceptsBookings() {
		uc.logger.Warn("CreateBooking[%s]: ground id=%d is inactive", operation, ground.ID)
		return nil, domain.ErrGroundInactive
	}

	// 5. Объединяем выбранные слоты в один интервал и считаем стоимость
	interval, amount, err := domain.ResolveSelection(ground.Category, uc.settings.Pricing, req.Slots)
	if err != nil {
		uc.logger.Warn("CreateBooking[%s]: invalid selection: %v", operation, err)
		return nil, err
	}

	// 6. Прошедшие слоты недоступны
	if err := validateNotPast(date, interval, now, uc.settings.Location); err != nil {
		uc.logger.Warn("CreateBooking[%s]: %v", operation, err)
		return nil, err
	}

	var result *domain.Booking

	// 7. Проверка конфликта и вставка под блокировкой ключа (площадка, дата)
	err = uc.guard.Run(ctx, []claim.Key{{GroundID: ground.ID, Date: date}}, func(txCtx context.Context) error {
		// 7.1. Блокирующие бронирования на дату (FOR UPDATE)
		existing, err := uc.bookingRepo.GetByGroundAndDate(txCtx, ground.ID, date)
		if err != nil {
			uc.logger.Error("CreateBooking[%s]: failed to get bookings: %v", operation, err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		// 7.2. Проверяем конфликт
		if conflict := scheduling.FindConflict(existing, ground.ID, date, interval, nil); conflict != nil {
			uc.logger.Warn("CreateBooking[%s]: %s overlaps booking id=%d (%s)",
				operation, interval, conflict.ID, conflict.Interval())
			return domain.ErrSlotUnavailable
		}

		// 7.3. Создаем бронирование
		booking := &domain.Booking{
			GroundID:      ground.ID,
			UserID:        req.UserID,
			BookingDate:   date,
			StartTime:     interval.Start,
			EndTime:       interval.End,
			Status:        status,
			PaymentStatus: domain.PaymentUnpaid,
			TotalAmount:   amount,
			Notes:         req.Notes,
		}
		if status.IsConfirmed() {
			booking.ConfirmedAt = ptr.Ptr(now)
			booking.ConfirmedBy = ptr.Ptr(req.Actor.ID)
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrSlotNotAvailable):
				uc.logger.Warn("CreateBooking[%s]: storage rejected overlapping interval %s", operation, interval)
				return domain.ErrSlotUnavailable
			case errors.Is(err, bookingRepo.ErrGroundNotFound):
				return domain.ErrGroundNotFound
			}
			uc.logger.Error("CreateBooking[%s]: failed to create booking: %v", operation, err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			uc.metrics.IncSlotClaim(operation, outcomeConflict)
		} else {
			uc.metrics.IncSlotClaim(operation, outcomeError)
		}
		return nil, err
	}

	uc.metrics.IncSlotClaim(operation, outcomeCreated)
	uc.logger.Info("CreateBooking[%s]: successfully created booking id=%d, %s %s, status=%s, amount=%.2f",
		operation, result.ID, date.Format(domain.DateFormat), interval, result.Status, result.TotalAmount)

	// 8. После фиксации: инвалидируем проекцию и отправляем событие
	if err := uc.cache.Invalidate(ctx, ground.ID, date); err != nil {
		uc.logger.Warn("CreateBooking[%s]: failed to invalidate availability cache: %v", operation, err)
	}

	uc.notifier.Notify(ctx, domain.NewBookingEvent(uuid.NewString(), eventType, result, req.Actor.ID, now))

	return result, nil
}
