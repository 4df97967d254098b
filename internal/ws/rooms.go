package ws

import "sync"

// Rooms routes fan-out by room name. Area rooms, ad-hoc chat rooms,
// and club-event rooms share one namespace, like the transport rooms
// they replace. Club-event rooms additionally carry an explicit
// ordered participants list keyed by room.
type Rooms struct {
	mu           sync.RWMutex
	rooms        map[string]map[*Conn]struct{}
	participants map[string][]string
}

func NewRooms() *Rooms {
	return &Rooms{
		rooms:        map[string]map[*Conn]struct{}{},
		participants: map[string][]string{},
	}
}

// Join adds the connection to a room, creating it on first use.
// Reports whether membership actually changed (idempotent).
func (r *Rooms) Join(room string, c *Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.rooms[room]
	if m == nil {
		m = map[*Conn]struct{}{}
		r.rooms[room] = m
	}
	if _, ok := m[c]; ok {
		return false
	}
	m[c] = struct{}{}
	return true
}

// Leave removes the connection from a room; empty rooms are dropped.
// Leaving a room never joined is a no-op. Reports whether the
// connection was a member.
func (r *Rooms) Leave(room string, c *Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rooms[room]
	if !ok {
		return false
	}
	if _, ok := m[c]; !ok {
		return false
	}
	delete(m, c)
	if len(m) == 0 {
		delete(r.rooms, room)
	}
	return true
}

// Contains reports whether the connection is a member of the room.
func (r *Rooms) Contains(room string, c *Conn) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[room][c]
	return ok
}

// Broadcast sends a frame to every member of the room without blocking.
func (r *Rooms) Broadcast(room string, b []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for c := range r.rooms[room] {
		c.send(b)
	}
}

// RemoveConn strips the connection from every room it is in.
func (r *Rooms) RemoveConn(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for room, m := range r.rooms {
		delete(m, c)
		if len(m) == 0 {
			delete(r.rooms, room)
		}
	}
}

// AddParticipant records a user in a club-event room's participants
// list, idempotently, and returns a copy of the updated list.
func (r *Rooms) AddParticipant(room, userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.participants[room] {
		if id == userID {
			return append([]string(nil), r.participants[room]...)
		}
	}
	r.participants[room] = append(r.participants[room], userID)
	return append([]string(nil), r.participants[room]...)
}

// RemoveParticipant drops a user from a club-event room's list and
// returns a copy of the updated list.
func (r *Rooms) RemoveParticipant(room, userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants[room] = without(r.participants[room], userID)
	if len(r.participants[room]) == 0 {
		delete(r.participants, room)
		return nil
	}
	return append([]string(nil), r.participants[room]...)
}

// RemoveParticipantAll drops a user from every club-event list and
// returns the affected rooms with their updated lists, so disconnect
// can notify each one.
func (r *Rooms) RemoveParticipantAll(userID string) map[string][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	affected := map[string][]string{}
	for room, ids := range r.participants {
		next := without(ids, userID)
		if len(next) == len(ids) {
			continue
		}
		if len(next) == 0 {
			delete(r.participants, room)
			affected[room] = nil
			continue
		}
		r.participants[room] = next
		affected[room] = append([]string(nil), next...)
	}
	return affected
}

// Participants returns a copy of a club-event room's list.
func (r *Rooms) Participants(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.participants[room]...)
}

func without(ids []string, userID string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}
