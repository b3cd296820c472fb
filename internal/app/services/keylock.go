package services

import "sync"

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// KeyLocks hands out one mutex per snapshot key. Entries are dropped once no
// caller holds or waits on them, so the table only grows with concurrency.
type KeyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

// NewKeyLocks creates an empty lock table.
func NewKeyLocks() *KeyLocks {
	return &KeyLocks{locks: make(map[string]*keyLock)}
}

func (k *KeyLocks) acquire(key string) *keyLock {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &keyLock{}
		k.locks[key] = lock
	}
	lock.refs++
	k.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (k *KeyLocks) release(key string, lock *keyLock) {
	lock.mu.Unlock()

	k.mu.Lock()
	defer k.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(k.locks, key)
	}
}

// WithLock runs fn while holding the lock for key.
func (k *KeyLocks) WithLock(key string, fn func() error) error {
	lock := k.acquire(key)
	defer k.release(key, lock)
	return fn()
}

// Len reports how many keys are currently held or waited on.
func (k *KeyLocks) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
