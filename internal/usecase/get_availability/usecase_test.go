package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/scheduling"
	"github.com/m04kA/SMC-GroundBooking/internal/testutil"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
	"github.com/m04kA/SMC-GroundBooking/pkg/types"
)

var (
	testPricing = domain.Pricing{DayHourPrice: 1000, NightHourPrice: 1500}
	testNow     = time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC)
	testDate    = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store   *testutil.Store
	cache   *testutil.Cache
	metrics *testutil.Metrics
	ground  *domain.Ground
	uc      *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testutil.NewStore()
	f := &fixture{
		store:   store,
		cache:   testutil.NewCache(),
		metrics: testutil.NewMetrics(),
		ground:  store.AddGround(domain.Ground{Name: "Central", Category: domain.CategoryDay, Active: true}),
	}
	f.uc = NewUseCase(store, store.Grounds(), f.cache, f.metrics, testPricing, time.UTC, logger.Discard())
	f.uc.timeProvider = testutil.Clock{At: testNow}
	return f
}

func (f *fixture) seed(userID int64, start, end string, status domain.BookingStatus) int64 {
	return f.store.Seed(domain.Booking{
		GroundID:    f.ground.ID,
		UserID:      userID,
		BookingDate: testDate,
		StartTime:   types.MustTimeString(start),
		EndTime:     types.MustTimeString(end),
		Status:      status,
	}).ID
}

func stateAt(t *testing.T, resp *Response, start string) scheduling.SlotState {
	t.Helper()
	for _, s := range resp.Slots {
		if s.Start.String() == start {
			return s
		}
	}
	require.FailNow(t, "slot not found", start)
	return scheduling.SlotState{}
}

func TestExecute_AnnotatesOccupancy(t *testing.T) {
	f := newFixture(t)
	ownPending := f.seed(10, "09:00", "10:00", domain.StatusPending)
	ownConfirmed := f.seed(10, "12:00", "12:30", domain.StatusConfirmed)
	f.seed(20, "15:00", "16:00", domain.StatusConfirmed)
	f.seed(20, "17:00", "18:00", domain.StatusCancelled)

	resp, err := f.uc.Execute(context.Background(), &Request{GroundID: f.ground.ID, Date: testDate, RequesterID: 10})

	require.NoError(t, err)
	assert.Equal(t, "Central", resp.Ground.Name)
	assert.Len(t, resp.Slots, 22)

	first := stateAt(t, resp, "09:00")
	assert.Equal(t, scheduling.OccupancyOwnPending, first.Occupancy)
	require.NotNil(t, first.BookingID)
	assert.Equal(t, ownPending, *first.BookingID)

	assert.Equal(t, scheduling.OccupancyOwnPending, stateAt(t, resp, "09:30").Occupancy)
	assert.Equal(t, scheduling.OccupancyAvailable, stateAt(t, resp, "10:00").Occupancy)

	confirmed := stateAt(t, resp, "12:00")
	assert.Equal(t, scheduling.OccupancyOwnConfirmed, confirmed.Occupancy)
	assert.Equal(t, ownConfirmed, *confirmed.BookingID)

	other := stateAt(t, resp, "15:30")
	assert.Equal(t, scheduling.OccupancyBookedByOther, other.Occupancy)
	require.NotNil(t, other.OccupantID)
	assert.Equal(t, int64(20), *other.OccupantID)

	assert.Equal(t, scheduling.OccupancyAvailable, stateAt(t, resp, "17:00").Occupancy)
}

func TestExecute_AnonymousSeesOthers(t *testing.T) {
	f := newFixture(t)
	f.seed(10, "09:00", "10:00", domain.StatusPending)

	resp, err := f.uc.Execute(context.Background(), &Request{GroundID: f.ground.ID, Date: testDate})

	require.NoError(t, err)
	assert.Equal(t, scheduling.OccupancyBookedByOther, stateAt(t, resp, "09:00").Occupancy)
}

func TestExecute_PastSlotsToday(t *testing.T) {
	f := newFixture(t)
	f.uc.timeProvider = testutil.Clock{At: testDate.Add(12*time.Hour + 10*time.Minute)}

	resp, err := f.uc.Execute(context.Background(), &Request{GroundID: f.ground.ID, Date: testDate})

	require.NoError(t, err)
	assert.Equal(t, scheduling.OccupancyPast, stateAt(t, resp, "11:30").Occupancy)
	// Текущий слот ещё можно забронировать
	assert.Equal(t, scheduling.OccupancyAvailable, stateAt(t, resp, "12:00").Occupancy)
}

func TestExecute_CacheLifecycle(t *testing.T) {
	f := newFixture(t)
	f.seed(10, "09:00", "10:00", domain.StatusPending)
	req := &Request{GroundID: f.ground.ID, Date: testDate}

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.metrics.Count("cache:miss"))

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.metrics.Count("cache:hit"))
	assert.Equal(t, scheduling.OccupancyBookedByOther, stateAt(t, resp, "09:00").Occupancy)
}

func TestExecute_CacheErrorFallsBackToStorage(t *testing.T) {
	f := newFixture(t)
	f.seed(10, "09:00", "10:00", domain.StatusPending)
	f.cache.GetErr = errors.New("redis: connection refused")

	resp, err := f.uc.Execute(context.Background(), &Request{GroundID: f.ground.ID, Date: testDate})

	require.NoError(t, err)
	assert.Equal(t, 1, f.metrics.Count("cache:error"))
	assert.Equal(t, scheduling.OccupancyBookedByOther, stateAt(t, resp, "09:00").Occupancy)
}

func TestExecute_NightGround(t *testing.T) {
	f := newFixture(t)
	night := f.store.AddGround(domain.Ground{Name: "Arena", Category: domain.CategoryNight, Active: true})

	resp, err := f.uc.Execute(context.Background(), &Request{GroundID: night.ID, Date: testDate})

	require.NoError(t, err)
	assert.Len(t, resp.Slots, 10)
	assert.Equal(t, 750.0, resp.Slots[0].Price)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t)
	closed := f.store.AddGround(domain.Ground{Name: "Closed", Category: domain.CategoryDay, Active: false})

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "missing ground", req: &Request{Date: testDate}, wantErr: ErrInvalidInput},
		{name: "missing date", req: &Request{GroundID: f.ground.ID}, wantErr: ErrInvalidInput},
		{name: "unknown ground", req: &Request{GroundID: 404, Date: testDate}, wantErr: domain.ErrGroundNotFound},
		{name: "inactive ground", req: &Request{GroundID: closed.ID, Date: testDate}, wantErr: domain.ErrGroundInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
