package create_booking

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/testutil"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
	"github.com/m04kA/SMC-GroundBooking/pkg/ptr"
)

var (
	testPricing = domain.Pricing{DayHourPrice: 1000, NightHourPrice: 1500}
	testNow     = time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC)
	testDate    = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	requester   = domain.Actor{ID: 10}
	admin       = domain.Actor{ID: 1, IsAdmin: true}
)

type fixture struct {
	store    *testutil.Store
	notifier *testutil.Notifier
	cache    *testutil.Cache
	metrics  *testutil.Metrics
	ground   *domain.Ground
	uc       *UseCase
}

func newFixture(t *testing.T, settings Settings) *fixture {
	t.Helper()

	store := testutil.NewStore()
	f := &fixture{
		store:    store,
		notifier: &testutil.Notifier{},
		cache:    testutil.NewCache(),
		metrics:  testutil.NewMetrics(),
		ground:   store.AddGround(domain.Ground{Name: "Central", Category: domain.CategoryDay, Active: true}),
	}

	if settings.Pricing == (domain.Pricing{}) {
		settings.Pricing = testPricing
	}

	f.uc = NewUseCase(
		store,
		store.Grounds(),
		testutil.NewGuard(store),
		f.notifier,
		f.cache,
		f.metrics,
		settings,
		logger.Discard(),
	)
	f.uc.timeProvider = testutil.Clock{At: testNow}
	return f
}

func slots(t *testing.T, bounds ...string) []domain.Interval {
	t.Helper()
	require.True(t, len(bounds)%2 == 0)
	result := make([]domain.Interval, 0, len(bounds)/2)
	for i := 0; i < len(bounds); i += 2 {
		interval, err := domain.NewInterval(bounds[i], bounds[i+1])
		require.NoError(t, err)
		result = append(result, interval)
	}
	return result
}

func (f *fixture) request(actor domain.Actor, s []domain.Interval) *Request {
	return &Request{Actor: actor, GroundID: f.ground.ID, Date: testDate, Slots: s}
}

func TestExecute_MergesContiguousSlots(t *testing.T) {
	f := newFixture(t, Settings{})

	booking, err := f.uc.Execute(context.Background(), f.request(requester, slots(t, "09:00", "09:30", "09:30", "10:00")))

	require.NoError(t, err)
	assert.Equal(t, "09:00", booking.StartTime.String())
	assert.Equal(t, "10:00", booking.EndTime.String())
	assert.Equal(t, 1000.0, booking.TotalAmount)
	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.Equal(t, domain.PaymentUnpaid, booking.PaymentStatus)
	assert.Equal(t, requester.ID, booking.UserID)
	assert.Nil(t, booking.ConfirmedAt)

	stored, ok := f.store.Booking(booking.ID)
	require.True(t, ok)
	assert.Equal(t, booking.Interval(), stored.Interval())

	assert.Equal(t, []domain.EventType{domain.EventBookingCreated}, f.notifier.Types())
	assert.Equal(t, []string{domain.SlotKey(f.ground.ID, testDate)}, f.cache.Invalidated())
	assert.Equal(t, 1, f.metrics.Count("claim:create:created"))
}

func TestExecute_IgnoresForeignUserID(t *testing.T) {
	f := newFixture(t, Settings{})

	req := f.request(requester, slots(t, "09:00", "09:30"))
	req.UserID = 999

	booking, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, requester.ID, booking.UserID)
}

func TestExecute_ConcurrentIdenticalRequests(t *testing.T) {
	f := newFixture(t, Settings{})

	const workers = 8
	selection := slots(t, "11:00", "11:30")
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), f.request(domain.Actor{ID: userID}, selection))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, domain.ErrSlotUnavailable):
				conflicts++
			}
		}(int64(100 + i))
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, f.store.Bookings(), 1)
	assert.Equal(t, workers-1, f.metrics.Count("claim:create:conflict"))
}

// randomSelection случайный непрерывный набор из 1-3 слотов в дневном окне 07:00-18:00
func randomSelection(t *testing.T, rnd *rand.Rand) []domain.Interval {
	t.Helper()
	const units = 22
	length := 1 + rnd.Intn(3)
	first := rnd.Intn(units - length + 1)

	bounds := make([]string, 0, length*2)
	for u := first; u < first+length; u++ {
		start := 7*60 + u*domain.SlotUnitMinutes
		end := start + domain.SlotUnitMinutes
		bounds = append(bounds,
			fmt.Sprintf("%02d:%02d", start/60, start%60),
			fmt.Sprintf("%02d:%02d", end/60, end%60))
	}
	return slots(t, bounds...)
}

func TestExecute_ConcurrentRandomSelectionsNeverOverlap(t *testing.T) {
	rnd := rand.New(rand.NewSource(20250610))

	for round := 0; round < 30; round++ {
		f := newFixture(t, Settings{})

		const workers = 12
		selections := make([][]domain.Interval, workers)
		for i := range selections {
			selections[i] = randomSelection(t, rnd)
		}

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			created int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := f.uc.Execute(context.Background(), f.request(domain.Actor{ID: int64(100 + i)}, selections[i]))

				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					created++
					return
				}
				assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
			}(i)
		}
		wg.Wait()

		bookings := f.store.Bookings()
		require.Len(t, bookings, created, "round %d", round)
		require.NotEmpty(t, bookings, "round %d", round)
		for i := range bookings {
			for j := i + 1; j < len(bookings); j++ {
				assert.False(t, bookings[i].Interval().Overlaps(bookings[j].Interval()),
					"round %d: %s overlaps %s", round, bookings[i].Interval(), bookings[j].Interval())
			}
		}
		// Конфликты ловит проверка под блокировкой, а не ограничение хранилища
		assert.Zero(t, f.store.ConstraintRejections(), "round %d", round)
		assert.Equal(t, workers-created, f.metrics.Count("claim:create:conflict"), "round %d", round)
	}
}

func TestExecute_AdjacentIntervalsDoNotConflict(t *testing.T) {
	f := newFixture(t, Settings{})

	_, err := f.uc.Execute(context.Background(), f.request(requester, slots(t, "10:00", "10:30", "10:30", "11:00")))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), f.request(domain.Actor{ID: 11}, slots(t, "11:00", "11:30")))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), f.request(domain.Actor{ID: 12}, slots(t, "10:30", "11:00")))
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
}

func TestExecute_ReleasedSlotCanBeClaimed(t *testing.T) {
	f := newFixture(t, Settings{})
	interval := slots(t, "12:00", "13:00")[0]

	for _, status := range []domain.BookingStatus{domain.StatusCancelled, domain.StatusRejected, domain.StatusExpired} {
		f.store.Seed(domain.Booking{
			GroundID: f.ground.ID, UserID: 50, BookingDate: testDate,
			StartTime: interval.Start, EndTime: interval.End, Status: status,
		})
	}

	_, err := f.uc.Execute(context.Background(), f.request(requester, slots(t, "12:00", "12:30", "12:30", "13:00")))
	assert.NoError(t, err)
}

func TestExecute_CompletedBlocks(t *testing.T) {
	f := newFixture(t, Settings{})
	interval := slots(t, "12:00", "13:00")[0]
	f.store.Seed(domain.Booking{
		GroundID: f.ground.ID, UserID: 50, BookingDate: testDate,
		StartTime: interval.Start, EndTime: interval.End, Status: domain.StatusCompleted,
	})

	_, err := f.uc.Execute(context.Background(), f.request(requester, slots(t, "12:30", "13:00")))
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *fixture, req *Request)
		wantErr error
	}{
		{
			name:    "no slots",
			mutate:  func(f *fixture, req *Request) { req.Slots = nil },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "gap",
			mutate:  func(f *fixture, req *Request) { req.Slots = slots(t, "09:00", "09:30", "10:00", "10:30") },
			wantErr: domain.ErrNonContiguousSelection,
		},
		{
			name:    "outside window",
			mutate:  func(f *fixture, req *Request) { req.Slots = slots(t, "18:00", "18:30") },
			wantErr: domain.ErrNonContiguousSelection,
		},
		{
			name:    "date in the past",
			mutate:  func(f *fixture, req *Request) { req.Date = testNow.AddDate(0, 0, -1) },
			wantErr: ErrInvalidDate,
		},
		{
			name: "slot already over",
			mutate: func(f *fixture, req *Request) {
				req.Date = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
				req.Slots = slots(t, "07:00", "07:30")
			},
			wantErr: ErrSlotInPast,
		},
		{
			name:    "unknown ground",
			mutate:  func(f *fixture, req *Request) { req.GroundID = 404 },
			wantErr: domain.ErrGroundNotFound,
		},
		{
			name: "inactive ground",
			mutate: func(f *fixture, req *Request) {
				req.GroundID = f.store.AddGround(domain.Ground{Name: "Closed", Category: domain.CategoryDay}).ID
			},
			wantErr: domain.ErrGroundInactive,
		},
		{
			name: "notes too long",
			mutate: func(f *fixture, req *Request) {
				notes := string(make([]rune, domain.MaxNotesLength+1))
				req.Notes = &notes
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Settings{})
			req := f.request(requester, slots(t, "09:00", "09:30"))
			tt.mutate(f, req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.store.Bookings())
			assert.Empty(t, f.notifier.Events())
		})
	}
}

func TestExecute_CurrentSlotIsBookable(t *testing.T) {
	f := newFixture(t, Settings{})
	f.uc.timeProvider = testutil.Clock{At: time.Date(2025, 6, 10, 9, 10, 0, 0, time.UTC)}

	_, err := f.uc.Execute(context.Background(), f.request(requester, slots(t, "09:00", "09:30")))
	assert.NoError(t, err)
}

func TestExecute_AdvanceBookingDays(t *testing.T) {
	f := newFixture(t, Settings{AdvanceBookingDays: 7})

	req := f.request(requester, slots(t, "09:00", "09:30"))
	req.Date = testNow.AddDate(0, 0, 8)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecuteDirect(t *testing.T) {
	f := newFixture(t, Settings{})

	req := f.request(admin, slots(t, "15:00", "15:30"))
	req.UserID = 77
	req.Notes = ptr.Ptr("walk-in")

	booking, err := f.uc.ExecuteDirect(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)
	assert.Equal(t, int64(77), booking.UserID)
	require.NotNil(t, booking.ConfirmedBy)
	assert.Equal(t, admin.ID, *booking.ConfirmedBy)
	assert.Equal(t, testNow, *booking.ConfirmedAt)
	assert.Equal(t, []domain.EventType{domain.EventBookingConfirmed}, f.notifier.Types())
	assert.Equal(t, 1, f.metrics.Count("claim:direct:created"))
}

func TestExecuteDirect_DefaultsToAdmin(t *testing.T) {
	f := newFixture(t, Settings{})

	booking, err := f.uc.ExecuteDirect(context.Background(), f.request(admin, slots(t, "15:00", "15:30")))

	require.NoError(t, err)
	assert.Equal(t, admin.ID, booking.UserID)
}

func TestExecuteDirect_RequiresAdmin(t *testing.T) {
	f := newFixture(t, Settings{})

	_, err := f.uc.ExecuteDirect(context.Background(), f.request(requester, slots(t, "15:00", "15:30")))

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Empty(t, f.store.Bookings())
}
