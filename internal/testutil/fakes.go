package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/usecase/claim"
	"github.com/m04kA/SMC-GroundBooking/pkg/keymutex"
)

// Tx менеджер транзакций без транзакций: fn выполняется как есть
type Tx struct{}

func (Tx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (Tx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// NewGuard создает настоящий claim.Guard поверх хранилища в памяти
func NewGuard(store *Store) *claim.Guard {
	return claim.NewGuard(keymutex.New(), store, Tx{}, 5*time.Second)
}

// Clock фиксированное время
type Clock struct {
	At time.Time
}

func (c Clock) Now() time.Time {
	return c.At
}

// Notifier запоминает отправленные события
type Notifier struct {
	mu     sync.Mutex
	events []domain.BookingEvent
}

func (n *Notifier) Notify(_ context.Context, events ...domain.BookingEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, events...)
}

// Events возвращает копию отправленных событий
func (n *Notifier) Events() []domain.BookingEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.BookingEvent(nil), n.events...)
}

// Types возвращает типы отправленных событий по порядку
func (n *Notifier) Types() []domain.EventType {
	events := n.Events()
	types := make([]domain.EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

// Cache проекция доступности в памяти, запоминает инвалидации
type Cache struct {
	mu          sync.Mutex
	entries     map[string][]*domain.Booking
	invalidated []string

	// GetErr возвращается из Get, если задан
	GetErr error
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string][]*domain.Booking)}
}

func (c *Cache) Get(_ context.Context, groundID int64, date time.Time) ([]*domain.Booking, bool, error) {
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	bookings, ok := c.entries[domain.SlotKey(groundID, date)]
	return bookings, ok, nil
}

func (c *Cache) Set(_ context.Context, groundID int64, date time.Time, bookings []*domain.Booking) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[domain.SlotKey(groundID, date)] = bookings
	return nil
}

func (c *Cache) Invalidate(_ context.Context, groundID int64, dates ...time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, date := range dates {
		key := domain.SlotKey(groundID, date)
		delete(c.entries, key)
		c.invalidated = append(c.invalidated, key)
	}
	return nil
}

// Invalidated возвращает ключи инвалидированных проекций по порядку
func (c *Cache) Invalidated() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.invalidated...)
}

// Metrics считает вызовы метрик в формате "имя:метки"
type Metrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMetrics() *Metrics {
	return &Metrics{counts: make(map[string]int)}
}

func (m *Metrics) inc(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
}

func (m *Metrics) IncSlotClaim(operation, outcome string) { m.inc("claim:" + operation + ":" + outcome) }
func (m *Metrics) IncStatusTransition(from, to string)   { m.inc("transition:" + from + ":" + to) }
func (m *Metrics) IncSweepRun(outcome string)            { m.inc("sweep:" + outcome) }
func (m *Metrics) IncCacheLookup(result string)          { m.inc("cache:" + result) }
func (m *Metrics) IncNotification(eventType, outcome string) {
	m.inc("notification:" + eventType + ":" + outcome)
}

// Count возвращает значение счётчика
func (m *Metrics) Count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key]
}
