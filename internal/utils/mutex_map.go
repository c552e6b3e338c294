package utils

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrMaxKeysReached = errors.New("max number of locked keys reached")

type keyLock struct {
	sem  chan struct{}
	refs int
}

// MutexMap hands out one lock per key. Entries are created on first Lock and
// removed once no goroutine holds or waits on them, so idle keys cost nothing.
type MutexMap struct {
	edit    sync.Mutex
	locks   map[string]*keyLock
	maxSize int
}

// NewMutexMap returns a map that allows at most maxSize distinct keys to be
// locked or waited on at once. maxSize <= 0 means no limit.
func NewMutexMap(maxSize int) *MutexMap {
	return &MutexMap{
		locks:   make(map[string]*keyLock),
		maxSize: maxSize,
	}
}

func (m *MutexMap) Lock(key string) error {
	return m.LockContext(context.Background(), key)
}

// LockContext waits for the lock on key until ctx is done. A waiter that gives
// up leaves the key as it found it and returns ctx.Err().
func (m *MutexMap) LockContext(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.edit.Lock()
	kl := m.locks[key]
	if kl == nil {
		if m.maxSize > 0 && len(m.locks) >= m.maxSize {
			m.edit.Unlock()
			return fmt.Errorf("unable to lock key %q: %w", key, ErrMaxKeysReached)
		}

		kl = &keyLock{sem: make(chan struct{}, 1)}
		m.locks[key] = kl
	}
	kl.refs++
	m.edit.Unlock()

	select {
	case kl.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		m.edit.Lock()
		m.release(key, kl)
		m.edit.Unlock()
		return ctx.Err()
	}
}

func (m *MutexMap) Unlock(key string) error {
	m.edit.Lock()
	defer m.edit.Unlock()

	kl := m.locks[key]
	if kl == nil {
		return fmt.Errorf("key %s not found", key)
	}

	select {
	case <-kl.sem:
	default:
		return fmt.Errorf("key %s is not locked", key)
	}

	m.release(key, kl)
	return nil
}

// release drops one reference to kl. The caller holds m.edit.
func (m *MutexMap) release(key string, kl *keyLock) {
	kl.refs--
	if kl.refs == 0 {
		delete(m.locks, key)
	}
}

// Len reports how many keys are currently locked or waited on.
func (m *MutexMap) Len() int {
	m.edit.Lock()
	defer m.edit.Unlock()
	return len(m.locks)
}
