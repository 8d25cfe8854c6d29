// Package locking serializes work on the same key within one process.
package locking

import (
	"context"
	"fmt"
	"sync"
)

// Locker hands out exclusive locks per key.
type Locker interface {
	Acquire(ctx context.Context, key string) (Lock, error)
}

// Lock is held until Release is called. Release is safe to call twice.
type Lock interface {
	Key() string
	Release()
}

// MemoryLocker keeps one slot per key for the life of the process.
type MemoryLocker struct {
	slots sync.Map
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{}
}

// Acquire blocks until key is free or ctx is done.
func (l *MemoryLocker) Acquire(ctx context.Context, key string) (Lock, error) {
	slot := l.slot(key)
	select {
	case slot <- struct{}{}:
		return &memoryLock{key: key, slot: slot}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("acquiring lock %q: %w", key, ctx.Err())
	}
}

func (l *MemoryLocker) slot(key string) chan struct{} {
	s, _ := l.slots.LoadOrStore(key, make(chan struct{}, 1))
	return s.(chan struct{})
}

type memoryLock struct {
	key  string
	slot chan struct{}
	once sync.Once
}

func (m *memoryLock) Key() string { return m.key }

func (m *memoryLock) Release() {
	m.once.Do(func() { <-m.slot })
}
