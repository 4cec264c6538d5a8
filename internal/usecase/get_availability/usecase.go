package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	groundRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/ground"
	"github.com/m04kA/SMC-GroundBooking/internal/scheduling"
)

const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// UseCase use case получения сетки слотов площадки
type UseCase struct {
	bookingRepo  BookingRepository
	groundRepo   GroundRepository
	cache        AvailabilityCache
	metrics      Metrics
	pricing      domain.Pricing
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	groundRepo GroundRepository,
	cache AvailabilityCache,
	metrics Metrics,
	pricing domain.Pricing,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		groundRepo:   groundRepo,
		cache:        cache,
		metrics:      metrics,
		pricing:      pricing,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает слоты окна площадки с состоянием занятости для запрашивающего
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: requester=%d, ground=%d, date=%s",
		req.RequesterID, req.GroundID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.GroundID <= 0 {
		return nil, fmt.Errorf("%w: groundID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	date := scheduling.DateOnly(req.Date)

	// 2. Получаем площадку
	ground, err := uc.groundRepo.GetByID(ctx, req.GroundID)
	if err != nil {
		if errors.Is(err, groundRepo.ErrGroundNotFound) {
			uc.logger.Warn("GetAvailability: ground id=%d not found", req.GroundID)
			return nil, domain.ErrGroundNotFound
		}
		uc.logger.Error("GetAvailability: failed to get ground id=%d: %v", req.GroundID, err)
		return nil, fmt.Errorf("%w: failed to get ground: %v", ErrInternal, err)
	}

	if !ground.AcceptsBookings() {
		uc.logger.Warn("GetAvailability: ground id=%d is inactive", ground.ID)
		return nil, domain.ErrGroundInactive
	}

	// 3. Окно категории
	window, ok := domain.SlotWindowFor(ground.Category, uc.pricing)
	if !ok {
		uc.logger.Error("GetAvailability: ground id=%d has unknown category %q", ground.ID, ground.Category)
		return nil, fmt.Errorf("%w: unknown ground category %q", ErrInternal, ground.Category)
	}

	// 4. Занятость: кэш, затем хранилище
	bookings, err := uc.loadBookings(ctx, ground.ID, date)
	if err != nil {
		return nil, err
	}

	// 5. Аннотируем слоты
	states := scheduling.Availability(scheduling.AvailabilityInput{
		Slots:       domain.GenerateSlots(window),
		Bookings:    bookings,
		GroundID:    ground.ID,
		Date:        date,
		Now:         uc.timeProvider.Now(),
		Location:    uc.location,
		RequesterID: req.RequesterID,
	})

	uc.logger.Info("GetAvailability: generated %d slots for ground=%d, date=%s",
		len(states), ground.ID, date.Format(domain.DateFormat))

	return &Response{
		Ground: ground,
		Date:   date,
		Slots:  states,
	}, nil
}

func (uc *UseCase) loadBookings(ctx context.Context, groundID int64, date time.Time) ([]*domain.Booking, error) {
	cached, found, err := uc.cache.Get(ctx, groundID, date)
	switch {
	case err != nil:
		uc.metrics.IncCacheLookup(cacheError)
		uc.logger.Warn("GetAvailability: cache read failed, falling back to storage: %v", err)
	case found:
		uc.metrics.IncCacheLookup(cacheHit)
		return cached, nil
	default:
		uc.metrics.IncCacheLookup(cacheMiss)
	}

	bookings, err := uc.bookingRepo.GetByGroundAndDate(ctx, groundID, date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	if err := uc.cache.Set(ctx, groundID, date, bookings); err != nil {
		uc.logger.Warn("GetAvailability: failed to fill cache: %v", err)
	}

	return bookings, nil
}
