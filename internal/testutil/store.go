// Package testutil содержит in-memory реализации репозиториев и заглушки
// инфраструктуры для тестов use case и сервисов.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/booking"
	groundRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/ground"
	"github.com/m04kA/SMC-GroundBooking/internal/scheduling"
	"github.com/m04kA/SMC-GroundBooking/pkg/ptr"
)

// Store хранилище бронирований и площадок в памяти.
// Повторяет контракт PostgreSQL репозиториев: условные обновления по статусу,
// exclusion constraint на пересечение блокирующих бронирований, ошибки репозитория.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*domain.Booking
	grounds  map[int64]*domain.Ground
	rejected int

	// ListErr возвращается из ListSweepCandidates, если задан
	ListErr error
	// UpdateErr возвращается из UpdateStatus для указанного бронирования
	UpdateErr map[int64]error
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		bookings:  make(map[int64]*domain.Booking),
		grounds:   make(map[int64]*domain.Ground),
		UpdateErr: make(map[int64]error),
	}
}

// AddGround добавляет площадку
func (s *Store) AddGround(g domain.Ground) *domain.Ground {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == 0 {
		s.nextID++
		g.ID = s.nextID
	}
	s.grounds[g.ID] = &g
	c := g
	return &c
}

// Seed добавляет бронирование без проверки пересечений
func (s *Store) Seed(b domain.Booking) *domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		s.nextID++
		b.ID = s.nextID
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = domain.PaymentUnpaid
	}
	s.bookings[b.ID] = &b
	c := b
	return &c
}

// Booking возвращает копию бронирования
func (s *Store) Booking(id int64) (*domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, false
	}
	c := *b
	return &c, true
}

// Bookings возвращает копии всех бронирований, упорядоченные по ID
func (s *Store) Bookings() []*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(*domain.Booking) bool { return true })
}

// ConstraintRejections сколько вставок отклонил аналог exclusion constraint
func (s *Store) ConstraintRejections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rejected
}

func (s *Store) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.grounds[booking.GroundID]; !ok {
		return nil, bookingRepo.ErrGroundNotFound
	}
	if booking.Status.BlocksSlot() && s.overlaps(booking, 0) {
		s.rejected++
		return nil, bookingRepo.ErrSlotNotAvailable
	}

	s.nextID++
	c := *booking
	c.ID = s.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.bookings[c.ID] = &c

	booking.ID = c.ID
	booking.CreatedAt = c.CreatedAt
	booking.UpdatedAt = c.UpdatedAt
	return booking, nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	c := *b
	return &c, nil
}

func (s *Store) GetByGroundAndDate(_ context.Context, groundID int64, date time.Time) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := s.sorted(func(b *domain.Booking) bool {
		return b.GroundID == groundID && scheduling.SameDay(b.BookingDate, date) && b.Status.BlocksSlot()
	})
	sort.SliceStable(result, func(i, j int) bool { return result[i].StartTime.IsBefore(result[j].StartTime) })
	return result, nil
}

func (s *Store) GetByUserID(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(b *domain.Booking) bool {
		return b.UserID == userID && (status == nil || b.Status == *status)
	}), nil
}

func (s *Store) GetWithFilter(_ context.Context, f domain.BookingsFilter) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(b *domain.Booking) bool {
		switch {
		case f.GroundID != nil && b.GroundID != *f.GroundID:
			return false
		case f.UserID != nil && b.UserID != *f.UserID:
			return false
		case f.StartDate != nil && b.BookingDate.Before(scheduling.DateOnly(*f.StartDate)):
			return false
		case f.EndDate != nil && b.BookingDate.After(scheduling.DateOnly(*f.EndDate)):
			return false
		case f.Status != nil:
			return b.Status == *f.Status
		case !f.IncludeInactive:
			return b.Status.OccupiesSlot() || b.Status == domain.StatusCompleted
		}
		return true
	}), nil
}

func (s *Store) ListSweepCandidates(_ context.Context, upToDate time.Time) ([]*domain.Booking, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	limit := scheduling.DateOnly(upToDate)
	return s.sorted(func(b *domain.Booking) bool {
		return b.Status.OccupiesSlot() && !scheduling.DateOnly(b.BookingDate).After(limit)
	}), nil
}

func (s *Store) UpdateStatus(
	_ context.Context,
	id int64,
	expected, next domain.BookingStatus,
	actorID int64,
	at time.Time,
) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.UpdateErr[id]; err != nil {
		return nil, err
	}
	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if b.Status != expected {
		return nil, bookingRepo.ErrStaleState
	}

	b.Status = next
	b.UpdatedAt = at
	switch next {
	case domain.StatusConfirmed:
		b.ConfirmedAt, b.ConfirmedBy = ptr.Ptr(at), ptr.Ptr(actorID)
	case domain.StatusCancelled, domain.StatusRejected:
		b.CancelledAt, b.CancelledBy = ptr.Ptr(at), ptr.Ptr(actorID)
	}

	c := *b
	return &c, nil
}

func (s *Store) UpdateInterval(
	_ context.Context,
	id int64,
	expected domain.BookingStatus,
	date time.Time,
	interval domain.Interval,
	totalAmount float64,
	at time.Time,
) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if b.Status != expected {
		return nil, bookingRepo.ErrStaleState
	}

	moved := *b
	moved.BookingDate = scheduling.DateOnly(date)
	moved.StartTime = interval.Start
	moved.EndTime = interval.End
	if moved.Status.BlocksSlot() && s.overlaps(&moved, id) {
		return nil, bookingRepo.ErrSlotNotAvailable
	}

	moved.TotalAmount = totalAmount
	moved.UpdatedAt = at
	*b = moved

	c := moved
	return &c, nil
}

func (s *Store) SetPaymentStatus(_ context.Context, id int64, status domain.PaymentStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.PaymentStatus = status
	b.UpdatedAt = at
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(s.bookings, id)
	return nil
}

// LockSlot в памяти сериализация обеспечивается guard, блокировка БД не нужна
func (s *Store) LockSlot(context.Context, int64, time.Time) error {
	return nil
}

// Grounds возвращает репозиторий площадок поверх того же хранилища
func (s *Store) Grounds() *GroundStore {
	return &GroundStore{s: s}
}

// GroundStore репозиторий площадок в памяти
type GroundStore struct {
	s *Store
}

func (g *GroundStore) Create(_ context.Context, ground *domain.Ground) (*domain.Ground, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	for _, existing := range g.s.grounds {
		if existing.Name == ground.Name {
			return nil, groundRepo.ErrDuplicateName
		}
	}
	g.s.nextID++
	ground.ID = g.s.nextID
	ground.CreatedAt = time.Now()
	ground.UpdatedAt = ground.CreatedAt
	c := *ground
	g.s.grounds[c.ID] = &c
	return ground, nil
}

func (g *GroundStore) GetByID(_ context.Context, id int64) (*domain.Ground, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	ground, ok := g.s.grounds[id]
	if !ok {
		return nil, groundRepo.ErrGroundNotFound
	}
	c := *ground
	return &c, nil
}

func (g *GroundStore) List(_ context.Context, onlyActive bool) ([]*domain.Ground, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	result := make([]*domain.Ground, 0, len(g.s.grounds))
	for _, ground := range g.s.grounds {
		if onlyActive && !ground.Active {
			continue
		}
		c := *ground
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (g *GroundStore) Update(_ context.Context, id int64, ground *domain.Ground) (*domain.Ground, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	existing, ok := g.s.grounds[id]
	if !ok {
		return nil, groundRepo.ErrGroundNotFound
	}
	for otherID, other := range g.s.grounds {
		if otherID != id && other.Name == ground.Name {
			return nil, groundRepo.ErrDuplicateName
		}
	}
	ground.ID = id
	ground.CreatedAt = existing.CreatedAt
	ground.UpdatedAt = time.Now()
	c := *ground
	g.s.grounds[id] = &c
	return ground, nil
}

// overlaps проверяет exclusion constraint; вызывается под мьютексом
func (s *Store) overlaps(candidate *domain.Booking, excludeID int64) bool {
	for id, b := range s.bookings {
		if id == excludeID || b.GroundID != candidate.GroundID {
			continue
		}
		if !scheduling.SameDay(b.BookingDate, candidate.BookingDate) || !b.Status.BlocksSlot() {
			continue
		}
		if b.Interval().Overlaps(candidate.Interval()) {
			return true
		}
	}
	return false
}

// sorted возвращает копии подходящих бронирований по возрастанию ID; вызывается под мьютексом
func (s *Store) sorted(match func(*domain.Booking) bool) []*domain.Booking {
	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if match(b) {
			c := *b
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
