package handler

import "sync"

// UserTracker counts the distinct user IDs seen by the API. It feeds the
// users gauge and is safe for concurrent use.
type UserTracker struct {
	mu    sync.Mutex
	users map[string]struct{}
}

// NewUserTracker creates an empty tracker.
func NewUserTracker() *UserTracker {
	return &UserTracker{users: make(map[string]struct{})}
}

// Observe records a user ID.
func (t *UserTracker) Observe(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.users[userID] = struct{}{}
}

// Count returns the number of distinct user IDs observed.
func (t *UserTracker) Count() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int64(len(t.users))
}
