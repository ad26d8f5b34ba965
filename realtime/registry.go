package realtime

import (
	"sync"
)

// Registry is the single source of truth for which users are connected and
// on which connections. A user with several tabs open holds several
// connection ids under one userId.
type Registry struct {
	mu sync.RWMutex
	// connection id -> identity presented at join time
	conns map[string]Identity
	// user id -> set of connection ids; an entry is removed outright when
	// its last connection goes away, which is the offline trigger
	users map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]Identity),
		users: make(map[string]map[string]struct{}),
	}
}

// Register records an identity for a connection. Registering the same
// connection twice is idempotent; the later identity wins. It reports
// whether this is the user's first live connection.
func (r *Registry) Register(connID string, identity Identity) (firstConnection bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.conns[connID]; ok {
		if prev.UserID == identity.UserID {
			// Duplicate join from the same connection: refresh the identity
			// record, no presence transition.
			r.conns[connID] = identity
			return false
		}
		// Re-register under another user: detach first so the connection
		// never appears under two users.
		r.detachLocked(connID, prev.UserID)
	}

	r.conns[connID] = identity
	set, online := r.users[identity.UserID]
	if !online {
		set = make(map[string]struct{})
		r.users[identity.UserID] = set
	}
	set[connID] = struct{}{}
	return !online
}

// Unregister removes a connection and returns the identity it carried.
// found is false for connections that never completed a join, which the
// disconnect path must tolerate. lastConnection reports whether the removal
// emptied the user's connection set.
func (r *Registry) Unregister(connID string) (identity Identity, found bool, lastConnection bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, found = r.conns[connID]
	if !found {
		return Identity{}, false, false
	}
	delete(r.conns, connID)
	lastConnection = r.detachLocked(connID, identity.UserID)
	return identity, true, lastConnection
}

// detachLocked removes connID from a user's set, dropping the set entirely
// when it empties. Reports whether the set was emptied.
func (r *Registry) detachLocked(connID, userID string) bool {
	set, ok := r.users[userID]
	if !ok {
		return false
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(r.users, userID)
		return true
	}
	return false
}

// OnlineUsers returns one identity per distinct online user. Order is
// unspecified.
func (r *Registry) OnlineUsers() []Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]Identity, 0, len(r.users))
	for _, set := range r.users {
		for connID := range set {
			if identity, ok := r.conns[connID]; ok {
				users = append(users, identity)
				break
			}
		}
	}
	return users
}

// IsOnline reports whether the user has at least one live connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[userID]
	return ok
}

// ConnectionCount returns the number of live connections for a user.
func (r *Registry) ConnectionCount(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users[userID])
}

// Identity returns the identity registered for a connection, if any.
func (r *Registry) Identity(connID string) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.conns[connID]
	return identity, ok
}
