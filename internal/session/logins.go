package session

import "sync"

// LoginTracker records which identities are currently logged in, keeping a
// user from holding two simultaneous sessions.
type LoginTracker struct {
	mu    sync.Mutex
	users map[string]struct{}
}

// NewLoginTracker returns an empty tracker.
func NewLoginTracker() *LoginTracker {
	return &LoginTracker{users: make(map[string]struct{})}
}

// TryAdd claims the identity, reporting false if it is already logged in.
func (t *LoginTracker) TryAdd(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.users[username]; ok {
		return false
	}
	t.users[username] = struct{}{}
	return true
}

// Remove releases the identity. Removing an absent identity is a no-op.
func (t *LoginTracker) Remove(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.users, username)
}

// Count returns the number of logged-in identities.
func (t *LoginTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.users)
}
