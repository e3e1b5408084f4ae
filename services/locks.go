package services

import "sync"

// UserLocks serializes read-modify-write sequences per username so a
// simultaneous login and disconnect on the same record cannot interleave.
// Races across different usernames stay independent.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for a username and returns its release function.
// Mutexes are created on first use and kept for the process lifetime; the
// user set is bounded by the directory size.
func (l *UserLocks) Lock(username string) func() {
	l.mu.Lock()
	lock, ok := l.locks[username]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[username] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
