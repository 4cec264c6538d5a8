// Package availability кэширует в Redis блокирующие бронирования площадки на дату.
// В кэше хранится только проекция занятости без привязки к запрашивающему,
// аннотация own_* вычисляется при чтении. Путь записи кэш не читает.
package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/pkg/types"
)

const defaultTTL = 30 * time.Second

// entry закэшированное блокирующее бронирование
type entry struct {
	BookingID int64                `json:"booking_id"`
	UserID    int64                `json:"user_id"`
	Status    domain.BookingStatus `json:"status"`
	Start     types.TimeString     `json:"start"`
	End       types.TimeString     `json:"end"`
}

// Cache кэш проекции доступности
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCache создает кэш поверх клиента Redis
func NewCache(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

// Get возвращает закэшированные бронирования площадки на дату.
// found=false при промахе.
func (c *Cache) Get(ctx context.Context, groundID int64, date time.Time) ([]*domain.Booking, bool, error) {
	raw, err := c.client.Get(ctx, c.key(groundID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: Get: %v", ErrCacheRead, err)
	}

	bookings, err := decode(raw, groundID, date)
	if err != nil {
		return nil, false, err
	}

	return bookings, true, nil
}

// Set сохраняет блокирующие бронирования площадки на дату
func (c *Cache) Set(ctx context.Context, groundID int64, date time.Time, bookings []*domain.Booking) error {
	raw, err := encode(bookings)
	if err != nil {
		return fmt.Errorf("%w: Set - encode: %v", ErrCacheWrite, err)
	}

	if err := c.client.Set(ctx, c.key(groundID, date), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set: %v", ErrCacheWrite, err)
	}

	return nil
}

// Invalidate удаляет записи для указанных дат площадки
func (c *Cache) Invalidate(ctx context.Context, groundID int64, dates ...time.Time) error {
	if len(dates) == 0 {
		return nil
	}

	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = c.key(groundID, d)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate: %v", ErrCacheWrite, err)
	}

	return nil
}

func (c *Cache) key(groundID int64, date time.Time) string {
	return c.prefix + ":" + domain.SlotKey(groundID, date)
}

func encode(bookings []*domain.Booking) ([]byte, error) {
	entries := make([]entry, 0, len(bookings))
	for _, b := range bookings {
		if b == nil || !b.Status.BlocksSlot() {
			continue
		}
		entries = append(entries, entry{
			BookingID: b.ID,
			UserID:    b.UserID,
			Status:    b.Status,
			Start:     b.StartTime,
			End:       b.EndTime,
		})
	}
	return json.Marshal(entries)
}

func decode(raw []byte, groundID int64, date time.Time) ([]*domain.Booking, error) {
	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bookings := make([]*domain.Booking, len(entries))
	for i, e := range entries {
		bookings[i] = &domain.Booking{
			ID:          e.BookingID,
			GroundID:    groundID,
			UserID:      e.UserID,
			BookingDate: date,
			StartTime:   e.Start,
			EndTime:     e.End,
			Status:      e.Status,
		}
	}
	return bookings, nil
}
