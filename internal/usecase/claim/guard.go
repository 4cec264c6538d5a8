// Package claim реализует защищённый захват слота: проверка конфликта и запись
// выполняются под блокировкой ключа (площадка, дата) внутри процесса,
// под advisory lock в БД и в SERIALIZABLE транзакции.
// Exclusion constraint таблицы bookings остаётся последним рубежом.
package claim

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/pkg/txmanager"
)

// ErrLockTimeout возвращается, если блокировку ключа не удалось получить вовремя
var ErrLockTimeout = errors.New("claim: lock wait timed out")

// Key ключ сериализации захватов
type Key struct {
	GroundID int64
	Date     time.Time
}

func (k Key) String() string {
	return domain.SlotKey(k.GroundID, k.Date)
}

// Guard выполняет функции захвата слота под блокировками
type Guard struct {
	locker  KeyLocker
	slots   SlotLocker
	txMgr   TransactionManager
	timeout time.Duration
}

// NewGuard создает guard. timeout ограничивает ожидание блокировки и транзакцию (0 - без ограничения).
func NewGuard(locker KeyLocker, slots SlotLocker, txMgr TransactionManager, timeout time.Duration) *Guard {
	return &Guard{
		locker:  locker,
		slots:   slots,
		txMgr:   txMgr,
		timeout: timeout,
	}
}

// Run выполняет fn в транзакции, удерживая блокировки всех ключей.
// Ключи берутся в отсортированном порядке, дубликаты схлопываются.
// Если повторы сериализации исчерпаны, возвращается domain.ErrSlotUnavailable.
func (g *Guard) Run(ctx context.Context, keys []Key, fn func(ctx context.Context) error) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	ordered := normalize(keys)

	names := make([]string, len(ordered))
	for i, k := range ordered {
		names[i] = k.String()
	}

	unlock, err := g.locker.LockAll(ctx, names...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLockTimeout, err)
	}
	defer unlock()

	err = g.txMgr.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, k := range ordered {
			if err := g.slots.LockSlot(txCtx, k.GroundID, k.Date); err != nil {
				return err
			}
		}
		return fn(txCtx)
	})

	if txmanager.IsRetryable(err) {
		return fmt.Errorf("%w: concurrent claim: %v", domain.ErrSlotUnavailable, err)
	}
	return err
}

func normalize(keys []Key) []Key {
	seen := make(map[string]struct{}, len(keys))
	result := make([]Key, 0, len(keys))
	for _, k := range keys {
		name := k.String()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, k)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].String() < result[j].String()
	})
	return result
}
