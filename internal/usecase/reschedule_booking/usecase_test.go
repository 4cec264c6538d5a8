package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/testutil"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
	"github.com/m04kA/SMC-GroundBooking/pkg/types"
)

var (
	testPricing = domain.Pricing{DayHourPrice: 1000, NightHourPrice: 1500}
	testNow     = time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC)
	testDate    = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	nextDate    = time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	owner       = domain.Actor{ID: 10}
	stranger    = domain.Actor{ID: 20}
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

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testutil.NewStore()
	f := &fixture{
		store:    store,
		notifier: &testutil.Notifier{},
		cache:    testutil.NewCache(),
		metrics:  testutil.NewMetrics(),
		ground:   store.AddGround(domain.Ground{Name: "Central", Category: domain.CategoryDay, Active: true}),
	}

	f.uc = NewUseCase(
		store,
		store.Grounds(),
		testutil.NewGuard(store),
		f.notifier,
		f.cache,
		f.metrics,
		Settings{Pricing: testPricing},
		logger.Discard(),
	)
	f.uc.timeProvider = testutil.Clock{At: testNow}
	return f
}

func (f *fixture) seed(userID int64, date time.Time, start, end string, status domain.BookingStatus) *domain.Booking {
	return f.store.Seed(domain.Booking{
		GroundID:    f.ground.ID,
		UserID:      userID,
		BookingDate: date,
		StartTime:   types.MustTimeString(start),
		EndTime:     types.MustTimeString(end),
		Status:      status,
		TotalAmount: 1000,
	})
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

func TestExecute_MovesToAnotherDate(t *testing.T) {
	f := newFixture(t)
	b := f.seed(owner.ID, testDate, "10:00", "11:00", domain.StatusConfirmed)

	moved, err := f.uc.Execute(context.Background(), &Request{
		Actor:     owner,
		BookingID: b.ID,
		Date:      nextDate,
		Slots:     slots(t, "12:00", "12:30", "12:30", "13:00", "13:00", "13:30"),
	})

	require.NoError(t, err)
	assert.Equal(t, b.ID, moved.ID)
	assert.Equal(t, domain.StatusConfirmed, moved.Status)
	assert.Equal(t, nextDate, moved.BookingDate)
	assert.Equal(t, "12:00", moved.StartTime.String())
	assert.Equal(t, "13:30", moved.EndTime.String())
	assert.Equal(t, 1500.0, moved.TotalAmount)

	assert.ElementsMatch(t, []string{
		domain.SlotKey(f.ground.ID, testDate),
		domain.SlotKey(f.ground.ID, nextDate),
	}, f.cache.Invalidated())

	events := f.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventBookingRescheduled, events[0].Type)
	require.NotNil(t, events[0].PreviousDate)
	assert.Equal(t, testDate, *events[0].PreviousDate)
	assert.Equal(t, "10:00", *events[0].PreviousStart)
	assert.Equal(t, "11:00", *events[0].PreviousEnd)

	assert.Equal(t, 1, f.metrics.Count("claim:reschedule:rescheduled"))
}

func TestExecute_ShiftWithinOwnInterval(t *testing.T) {
	f := newFixture(t)
	b := f.seed(owner.ID, testDate, "10:00", "11:00", domain.StatusPending)

	moved, err := f.uc.Execute(context.Background(), &Request{
		Actor:     owner,
		BookingID: b.ID,
		Date:      testDate,
		Slots:     slots(t, "10:30", "11:00", "11:00", "11:30"),
	})

	require.NoError(t, err)
	assert.Equal(t, "10:30", moved.StartTime.String())
	assert.Equal(t, "11:30", moved.EndTime.String())
	assert.Equal(t, domain.StatusPending, moved.Status)
}

func TestExecute_CompletedOccupantBlocks(t *testing.T) {
	f := newFixture(t)
	b := f.seed(owner.ID, testDate, "10:00", "11:00", domain.StatusConfirmed)
	f.seed(stranger.ID, nextDate, "14:00", "15:00", domain.StatusCompleted)

	_, err := f.uc.Execute(context.Background(), &Request{
		Actor:     admin,
		BookingID: b.ID,
		Date:      nextDate,
		Slots:     slots(t, "14:00", "14:30", "14:30", "15:00"),
	})

	require.ErrorIs(t, err, domain.ErrSlotUnavailable)

	stored, ok := f.store.Booking(b.ID)
	require.True(t, ok)
	assert.Equal(t, testDate, stored.BookingDate)
	assert.Equal(t, "10:00", stored.StartTime.String())
	assert.Equal(t, "11:00", stored.EndTime.String())
	assert.Equal(t, domain.StatusConfirmed, stored.Status)

	assert.Empty(t, f.notifier.Events())
	assert.Empty(t, f.cache.Invalidated())
	assert.Equal(t, 1, f.metrics.Count("claim:reschedule:conflict"))
}

func TestExecute_ElapsedCompletedOccupantIsPast(t *testing.T) {
	f := newFixture(t)
	today := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	b := f.seed(owner.ID, testDate, "10:00", "11:00", domain.StatusConfirmed)
	f.seed(stranger.ID, today, "07:00", "07:30", domain.StatusCompleted)

	_, err := f.uc.Execute(context.Background(), &Request{
		Actor:     admin,
		BookingID: b.ID,
		Date:      today,
		Slots:     slots(t, "07:00", "07:30"),
	})

	require.ErrorIs(t, err, ErrSlotInPast)
	assert.NotErrorIs(t, err, domain.ErrSlotUnavailable)

	stored, ok := f.store.Booking(b.ID)
	require.True(t, ok)
	assert.Equal(t, testDate, stored.BookingDate)
	assert.Zero(t, f.metrics.Count("claim:reschedule:conflict"))
}

func TestExecute_ReleasedOccupantDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	b := f.seed(owner.ID, testDate, "10:00", "11:00", domain.StatusPending)
	f.seed(stranger.ID, nextDate, "14:00", "15:00", domain.StatusCancelled)
	f.seed(stranger.ID, nextDate, "15:00", "16:00", domain.StatusExpired)

	_, err := f.uc.Execute(context.Background(), &Request{
		Actor:     owner,
		BookingID: b.ID,
		Date:      nextDate,
		Slots:     slots(t, "14:30", "15:00", "15:00", "15:30"),
	})

	assert.NoError(t, err)
}

func TestExecute_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.BookingStatus
		actor   domain.Actor
		ground  *domain.Ground
		wantErr error
	}{
		{name: "stranger", status: domain.StatusPending, actor: stranger, wantErr: domain.ErrPermissionDenied},
		{name: "cancelled booking", status: domain.StatusCancelled, actor: admin, wantErr: domain.ErrInvalidTransition},
		{name: "completed booking", status: domain.StatusCompleted, actor: owner, wantErr: domain.ErrInvalidTransition},
		{name: "system actor", status: domain.StatusPending, actor: domain.SystemActor(), wantErr: domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			b := f.seed(owner.ID, testDate, "10:00", "11:00", tt.status)

			_, err := f.uc.Execute(context.Background(), &Request{
				Actor:     tt.actor,
				BookingID: b.ID,
				Date:      nextDate,
				Slots:     slots(t, "12:00", "12:30"),
			})

			assert.ErrorIs(t, err, tt.wantErr)
			stored, _ := f.store.Booking(b.ID)
			assert.Equal(t, testDate, stored.BookingDate)
		})
	}
}

func TestExecute_InactiveGround(t *testing.T) {
	f := newFixture(t)
	closed := f.store.AddGround(domain.Ground{Name: "Closed", Category: domain.CategoryDay, Active: false})
	b := f.store.Seed(domain.Booking{
		GroundID:    closed.ID,
		UserID:      owner.ID,
		BookingDate: testDate,
		StartTime:   types.MustTimeString("10:00"),
		EndTime:     types.MustTimeString("11:00"),
		Status:      domain.StatusPending,
	})

	_, err := f.uc.Execute(context.Background(), &Request{
		Actor:     owner,
		BookingID: b.ID,
		Date:      nextDate,
		Slots:     slots(t, "12:00", "12:30"),
	})

	assert.ErrorIs(t, err, domain.ErrGroundInactive)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t)
	b := f.seed(owner.ID, testDate, "10:00", "11:00", domain.StatusPending)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "missing booking id",
			req:     &Request{Actor: owner, Date: nextDate, Slots: slots(t, "12:00", "12:30")},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "no slots",
			req:     &Request{Actor: owner, BookingID: b.ID, Date: nextDate},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "past date",
			req:     &Request{Actor: owner, BookingID: b.ID, Date: testNow.AddDate(0, 0, -1), Slots: slots(t, "12:00", "12:30")},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "started slot",
			req:     &Request{Actor: owner, BookingID: b.ID, Date: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), Slots: slots(t, "07:00", "07:30")},
			wantErr: ErrSlotInPast,
		},
		{
			name:    "gap between slots",
			req:     &Request{Actor: owner, BookingID: b.ID, Date: nextDate, Slots: slots(t, "12:00", "12:30", "13:00", "13:30")},
			wantErr: domain.ErrNonContiguousSelection,
		},
		{
			name:    "unknown booking",
			req:     &Request{Actor: owner, BookingID: 404, Date: nextDate, Slots: slots(t, "12:00", "12:30")},
			wantErr: domain.ErrBookingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
