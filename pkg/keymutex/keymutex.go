// Package keymutex предоставляет мьютексы, выделяемые по строковому ключу.
// Неиспользуемые ключи удаляются, так что память не растет с числом ключей.
package keymutex

import (
	"context"
	"sort"
	"sync"
)

type entry struct {
	ch   chan struct{}
	refs int
}

// KeyMutex набор мьютексов по ключу
type KeyMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New создает KeyMutex
func New() *KeyMutex {
	return &KeyMutex{entries: make(map[string]*entry)}
}

// Lock захватывает мьютекс ключа или возвращает ошибку контекста.
// Возвращаемая функция освобождает мьютекс и должна быть вызвана ровно один раз.
func (k *KeyMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		k.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			k.release(key, e)
		})
	}, nil
}

// LockAll захватывает мьютексы нескольких ключей в отсортированном порядке,
// исключая взаимную блокировку. Дубликаты ключей игнорируются.
func (k *KeyMutex) LockAll(ctx context.Context, keys ...string) (func(), error) {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	sort.Strings(unique)

	unlocks := make([]func(), 0, len(unique))
	unlockAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, key := range unique {
		unlock, err := k.Lock(ctx, key)
		if err != nil {
			unlockAll()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}

	return unlockAll, nil
}

// Len возвращает количество ключей, удерживаемых или ожидаемых в данный момент
func (k *KeyMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

func (k *KeyMutex) release(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
}
