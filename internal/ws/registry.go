package ws

import "sync"

// Registry maps user IDs to their live connection. It is the single
// source of truth for who is online. A reconnect for the same user
// overwrites the mapping (last-registered wins); the superseded
// transport is left to die on its own.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: map[string]*Conn{}}
}

// Register stores the connection for a user, overwriting any previous
// one. Collisions are not an error (reconnect tolerance).
func (r *Registry) Register(userID string, c *Conn) {
	r.mu.Lock()
	r.conns[userID] = c
	r.mu.Unlock()
}

// Lookup returns the user's current connection, if online.
func (r *Registry) Lookup(userID string) (*Conn, bool) {
	r.mu.RLock()
	c, ok := r.conns[userID]
	r.mu.RUnlock()
	return c, ok
}

// Unregister removes the mapping only if c is still the registered
// connection, so a stale disconnect cannot erase a fresher one.
// Reports whether the mapping was removed.
func (r *Registry) Unregister(userID string, c *Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns[userID] != c {
		return false
	}
	delete(r.conns, userID)
	return true
}

// Online returns the IDs of every connected user.
func (r *Registry) Online() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.conns))
	for id := range r.conns {
		out = append(out, id)
	}
	return out
}

// Each calls fn for every registered connection.
func (r *Registry) Each(fn func(*Conn)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.conns {
		fn(c)
	}
}
