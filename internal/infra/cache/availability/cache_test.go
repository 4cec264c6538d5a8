package availability

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/pkg/types"
)

var testDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

func TestEncodeDecode(t *testing.T) {
	bookings := []*domain.Booking{
		{ID: 1, GroundID: 3, UserID: 10, Status: domain.StatusPending, StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("10:00")},
		{ID: 2, GroundID: 3, UserID: 20, Status: domain.StatusCancelled, StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("11:00")},
		nil,
		{ID: 3, GroundID: 3, UserID: 20, Status: domain.StatusCompleted, StartTime: types.MustTimeString("22:30"), EndTime: types.MustTimeString("24:00")},
	}

	raw, err := encode(bookings)
	require.NoError(t, err)

	decoded, err := decode(raw, 3, testDate)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	assert.Equal(t, int64(1), decoded[0].ID)
	assert.Equal(t, int64(10), decoded[0].UserID)
	assert.Equal(t, domain.StatusPending, decoded[0].Status)
	assert.Equal(t, "09:00", decoded[0].StartTime.String())
	assert.Equal(t, int64(3), decoded[0].GroundID)
	assert.Equal(t, testDate, decoded[0].BookingDate)

	assert.Equal(t, domain.StatusCompleted, decoded[1].Status)
	assert.Equal(t, "24:00", decoded[1].EndTime.String())
}

func TestEncode_Empty(t *testing.T) {
	raw, err := encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	decoded, err := decode(raw, 1, testDate)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecode_Corrupted(t *testing.T) {
	_, err := decode([]byte(`{"booking_id":`), 1, testDate)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestKey(t *testing.T) {
	c := NewCache(nil, "groundbooking", 0)

	assert.Equal(t, "groundbooking:ground:3:2025-06-10", c.key(3, testDate))
	assert.Equal(t, defaultTTL, c.ttl)
}

func TestCache_UnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewCache(client, "groundbooking", time.Minute)
	ctx := context.Background()

	_, found, err := c.Get(ctx, 1, testDate)
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrCacheRead)

	assert.ErrorIs(t, c.Set(ctx, 1, testDate, nil), ErrCacheWrite)
	assert.ErrorIs(t, c.Invalidate(ctx, 1, testDate), ErrCacheWrite)
	assert.NoError(t, c.Invalidate(ctx, 1))
}

func TestNopCache(t *testing.T) {
	var c NopCache
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, testDate, []*domain.Booking{{ID: 1}}))
	bookings, found, err := c.Get(ctx, 1, testDate)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, bookings)
	assert.NoError(t, c.Invalidate(ctx, 1, testDate))
}
