package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-GroundBooking/internal/service/bookings/models"
)

// Service сервис чтения и административных операций над бронированиями
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	notifier    Notifier
	cache       AvailabilityCache
	logger      Logger
	now         func() time.Time
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	notifier Notifier,
	cache AvailabilityCache,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		notifier:    notifier,
		cache:       cache,
		logger:      logger,
		now:         time.Now,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование, администратор - любое
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.ID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin && !booking.IsOwnedBy(actor.ID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.ID, id)
		return nil, domain.ErrPermissionDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, actor domain.Actor, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v by actor=%d", req.UserID, req.Status, actor.ID)

	if !actor.IsAdmin && actor.ID != req.UserID {
		s.logger.Warn("GetUserBookings: access denied for user=%d to bookings of user=%d", actor.ID, req.UserID)
		return nil, domain.ErrPermissionDenied
	}

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetGroundBookings получает бронирования площадки с фильтрацией по периоду и статусу
// Доступно только администратору
func (s *Service) GetGroundBookings(ctx context.Context, actor domain.Actor, req *models.GetGroundBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetGroundBookings: fetching bookings for ground=%d, admin=%d", req.GroundID, actor.ID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if !actor.IsAdmin {
		s.logger.Warn("GetGroundBookings: user=%d is not an admin", actor.ID)
		return nil, domain.ErrPermissionDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetGroundBookings: invalid filter for ground=%d: %v", req.GroundID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetGroundBookings: repository error for ground=%d: %v", req.GroundID, err)
		return nil, fmt.Errorf("%w: GetGroundBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetGroundBookings: successfully fetched %d bookings for ground=%d", len(bookings), req.GroundID)
	return models.FromDomainBookingList(bookings), nil
}

// Purge физически удаляет бронирование и освобождает слот
// Доступно только администратору
func (s *Service) Purge(ctx context.Context, actor domain.Actor, id int64) error {
	s.logger.Info("Purge: deleting booking id=%d by admin=%d", id, actor.ID)

	if !actor.IsAdmin {
		s.logger.Warn("Purge: user=%d is not an admin", actor.ID)
		return domain.ErrPermissionDenied
	}

	var deleted *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "Purge", id)
		if err != nil {
			return err
		}

		if err := s.bookingRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return domain.ErrBookingNotFound
			}
			s.logger.Error("Purge: repository error for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Purge - repository error: %v", ErrInternal, err)
		}

		deleted = booking
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.cache.Invalidate(ctx, deleted.GroundID, deleted.BookingDate); err != nil {
		s.logger.Warn("Purge: failed to invalidate availability cache: %v", err)
	}

	s.notifier.Notify(ctx, domain.NewBookingEvent(uuid.NewString(), domain.EventBookingPurged, deleted, actor.ID, s.now()))

	s.logger.Info("Purge: successfully deleted booking id=%d", id)
	return nil
}

// MarkPaid отмечает бронирование оплаченным (без платёжного шлюза)
// Доступно только администратору
func (s *Service) MarkPaid(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	s.logger.Info("MarkPaid: booking id=%d by admin=%d", id, actor.ID)

	if !actor.IsAdmin {
		s.logger.Warn("MarkPaid: user=%d is not an admin", actor.ID)
		return nil, domain.ErrPermissionDenied
	}

	if err := s.bookingRepo.SetPaymentStatus(ctx, id, domain.PaymentPaid, s.now()); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("MarkPaid: booking id=%d not found", id)
			return nil, domain.ErrBookingNotFound
		}
		s.logger.Error("MarkPaid: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: MarkPaid - repository error: %v", ErrInternal, err)
	}

	booking, err := s.getBooking(ctx, "MarkPaid", id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("MarkPaid: booking id=%d marked as paid", id)
	return models.FromDomainBooking(booking), nil
}

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, domain.ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}
