package claim

import (
	"context"
	"time"
)

// KeyLocker сериализует захваты внутри процесса (*keymutex.KeyMutex)
type KeyLocker interface {
	LockAll(ctx context.Context, keys ...string) (func(), error)
}

// SlotLocker берёт блокировку ключа в транзакции БД (advisory lock)
type SlotLocker interface {
	LockSlot(ctx context.Context, groundID int64, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}
