package service

import "sync"

// entityLocks serializes evolution processing per entity id. Locking is
// per-process; cross-process races are absorbed by the storage cooldown
// uniqueness constraint.
type entityLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEntityLocks() *entityLocks {
	return &entityLocks{locks: map[string]*sync.Mutex{}}
}

// acquire locks the mutex for an entity id and returns its unlock func.
func (l *entityLocks) acquire(id string) func() {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
