package ws

import (
	"fmt"
	"math/rand"
	"sync"
)

// Avatar is the ephemeral per-user presence record broadcast to every
// connected client.
type Avatar struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Color    string  `json:"color"`
	Name     string  `json:"name"`
	AreaSlug string  `json:"areaSlug"`
}

// Presence holds one Avatar per online user.
type Presence struct {
	mu      sync.RWMutex
	avatars map[string]Avatar
}

func NewPresence() *Presence {
	return &Presence{avatars: map[string]Avatar{}}
}

// Ensure installs seed as the user's avatar unless one already exists
// (a rapid reconnect keeps the live record). The check-then-set is
// atomic under the lock. Returns the effective avatar.
func (p *Presence) Ensure(userID string, seed Avatar) Avatar {
	p.mu.Lock()
	defer p.mu.Unlock()
	if av, ok := p.avatars[userID]; ok {
		return av
	}
	p.avatars[userID] = seed
	return seed
}

// Move updates the user's coordinates, last-write-wins. The area is
// only overwritten when the event carries one. Reports false when no
// avatar exists for the user (stale client, ignored).
func (p *Presence) Move(userID string, x, y float64, area string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	av, ok := p.avatars[userID]
	if !ok {
		return false
	}
	av.X = x
	av.Y = y
	if area != "" {
		av.AreaSlug = area
	}
	p.avatars[userID] = av
	return true
}

// SetArea records the user's current area.
func (p *Presence) SetArea(userID, area string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if av, ok := p.avatars[userID]; ok {
		av.AreaSlug = area
		p.avatars[userID] = av
	}
}

// Get returns the user's avatar, if present.
func (p *Presence) Get(userID string) (Avatar, bool) {
	p.mu.RLock()
	av, ok := p.avatars[userID]
	p.mu.RUnlock()
	return av, ok
}

// Remove drops the user's avatar.
func (p *Presence) Remove(userID string) {
	p.mu.Lock()
	delete(p.avatars, userID)
	p.mu.Unlock()
}

// Snapshot copies the full presence map for a broadcast. Every
// mutation ships the whole map to every client, which is O(n) per
// movement event; fine at campus scale, the ceiling for anything
// bigger (switch to per-user deltas before raising it).
func (p *Presence) Snapshot() map[string]Avatar {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]Avatar, len(p.avatars))
	for id, av := range p.avatars {
		out[id] = av
	}
	return out
}

// randomSpawn picks a default position near the map origin for users
// with no persisted position.
func randomSpawn() (float64, float64) {
	return 200 + rand.Float64()*100, 200 + rand.Float64()*100
}

// randomColor picks a display color for a first-time avatar.
func randomColor() string {
	return fmt.Sprintf("#%06x", rand.Intn(0x1000000))
}

// maskName derives a placeholder display name from a user ID.
func maskName(userID string) string {
	if len(userID) > 4 {
		userID = userID[len(userID)-4:]
	}
	return "User-" + userID
}
