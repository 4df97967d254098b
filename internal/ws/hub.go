package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"github.com/Ironmac17/nexora/internal/store"
	"github.com/Ironmac17/nexora/pkg/auth"
	"github.com/Ironmac17/nexora/pkg/metrics"
)

// storeTimeout bounds every call to the persistence collaborator so a
// slow store can never stall a connection's event loop for long.
const storeTimeout = 3 * time.Second

// Store is the slice of the persistence collaborator the relay reads
// and writes. Implemented by *store.Postgres.
type Store interface {
	GetAreaBySlug(ctx context.Context, slug string) (store.Area, error)
	IncrementAreaUsersOnline(ctx context.Context, slug string, delta int) error
	GetUserProfile(ctx context.Context, id string) (store.Profile, error)
}

// PositionStore is the last-known-position cache. Implemented by
// *store.Positions.
type PositionStore interface {
	Get(ctx context.Context, userID string) (store.Position, bool, error)
	Set(ctx context.Context, userID string, pos store.Position) error
}

// Hub owns all relay state: the connection registry, the presence
// map, and room membership. One instance per server; nothing outside
// the hub's handlers mutates these.
type Hub struct {
	log         *slog.Logger
	db          Store
	pos         PositionStore
	jwt         *auth.JWT
	defaultArea string

	registry *Registry
	presence *Presence
	rooms    *Rooms
}

// NewHub builds a hub around the persistence collaborator.
func NewHub(logger *slog.Logger, db Store, pos PositionStore, jwt *auth.JWT, defaultArea string) *Hub {
	return &Hub{
		log:         logger,
		db:          db,
		pos:         pos,
		jwt:         jwt,
		defaultArea: defaultArea,
		registry:    NewRegistry(),
		presence:    NewPresence(),
		rooms:       NewRooms(),
	}
}

// ServeWS handles a new /ws connection. Identity comes from the
// handshake query: either a token issued by the upstream auth flow
// (sub claim) or a bare userId. The relay trusts whichever it gets;
// a connection with neither is refused.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := h.identify(r)
	if userID == "" {
		http.Error(w, "identity required", http.StatusUnauthorized)
		return
	}

	wsc, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}
	c := newConn(wsc, userID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go c.WriteLoop(ctx)

	h.connect(ctx, c)
	metrics.Connections.Inc()

	for {
		payload, ok := c.Read(ctx)
		if !ok {
			break
		}
		h.dispatch(c, payload)
	}

	metrics.Connections.Dec()
	h.disconnect(c)
	_ = c.Close()
}

// identify resolves the user identity from the handshake query.
func (h *Hub) identify(r *http.Request) string {
	q := r.URL.Query()
	if tok := q.Get("token"); tok != "" {
		uid, err := h.jwt.Verify(tok)
		if err != nil {
			h.log.Debug("ws.identify.token", "err", err)
			return ""
		}
		return uid
	}
	return q.Get("userId")
}

// connect registers the session and seeds its avatar, then pushes the
// presence snapshot and online list to everyone.
func (h *Hub) connect(ctx context.Context, c *Conn) {
	h.registry.Register(c.userID, c)
	h.presence.Ensure(c.userID, h.seedAvatar(ctx, c.userID))
	h.broadcastAvatars()
	h.broadcastOnline()
	h.log.Info("ws.connected", "userId", c.userID)
}

// seedAvatar builds the initial avatar for a user: persisted position
// and profile name when available, random spawn and masked name
// otherwise. Store failures degrade to the fallbacks.
func (h *Hub) seedAvatar(ctx context.Context, userID string) Avatar {
	x, y := randomSpawn()
	av := Avatar{
		X:        x,
		Y:        y,
		Color:    randomColor(),
		Name:     maskName(userID),
		AreaSlug: h.defaultArea,
	}

	rctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if pos, ok, err := h.pos.Get(rctx, userID); err != nil {
		h.log.Warn("position.read", "userId", userID, "err", err)
	} else if ok {
		av.X, av.Y = pos.X, pos.Y
		if pos.AreaSlug != "" {
			av.AreaSlug = pos.AreaSlug
		}
	}

	if prof, err := h.db.GetUserProfile(rctx, userID); err != nil {
		h.log.Debug("profile.read", "userId", userID, "err", err)
	} else if prof.FullName != "" {
		av.Name = prof.FullName
	}
	return av
}

// dispatch decodes one inbound frame and runs its handler to
// completion on the connection's reader goroutine.
func (h *Hub) dispatch(c *Conn, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.log.Debug("ws.frame", "userId", c.userID, "err", err)
		return
	}

	typ := env.Type
	if !knownEvent(typ) {
		typ = "unknown"
	}
	metrics.Events.WithLabelValues(typ).Inc()

	switch env.Type {
	case EvJoinArea:
		var slug string
		if json.Unmarshal(env.Data, &slug) == nil {
			h.joinArea(c, slug)
		}
	case EvLeaveArea:
		var slug string
		if json.Unmarshal(env.Data, &slug) == nil {
			h.leaveArea(c, slug)
		}
	case EvMoveAvatar:
		var mv movePayload
		if json.Unmarshal(env.Data, &mv) == nil {
			h.moveAvatar(c, mv)
		}
	case EvJoinRoom:
		var room string
		if json.Unmarshal(env.Data, &room) == nil && room != "" {
			h.rooms.Join(room, c)
		}
	case EvSendRoomMessage:
		var p roomMessagePayload
		if json.Unmarshal(env.Data, &p) == nil {
			h.sendRoomMessage(c, p)
		}
	case EvSendPrivateMessage:
		var p privateMessagePayload
		if json.Unmarshal(env.Data, &p) == nil {
			h.sendPrivateMessage(c, p)
		}
	case EvJoinClubEvent:
		var p clubEventPayload
		if json.Unmarshal(env.Data, &p) == nil {
			h.joinClubEvent(c, p.EventRoom)
		}
	case EvLeaveClubEvent:
		var p clubEventPayload
		if json.Unmarshal(env.Data, &p) == nil {
			h.leaveClubEvent(c, p.EventRoom)
		}
	case EvSendClubMessage:
		var p clubMessagePayload
		if json.Unmarshal(env.Data, &p) == nil {
			h.sendClubMessage(c, p)
		}
	default:
		h.log.Debug("ws.event.unknown", "userId", c.userID, "type", env.Type)
	}
}

// joinArea puts the connection in the area's room, bumps the area's
// persisted online counter, and notifies the room. Re-joining an area
// already joined is a no-op, so the counter can never double-count.
func (h *Hub) joinArea(c *Conn, slug string) {
	if slug == "" {
		return
	}
	if _, ok := c.areas[slug]; ok {
		return
	}
	c.areas[slug] = struct{}{}
	h.rooms.Join(slug, c)
	h.presence.SetArea(c.userID, slug)

	// Counter bump is skipped when the slug resolves to nothing; the
	// join still stands for relay purposes.
	if err := h.bumpAreaCounter(slug, +1); err != nil {
		h.log.Warn("area.counter", "slug", slug, "delta", 1, "err", err)
	} else {
		h.rooms.Broadcast(slug, envelope(EvAreaStatusUpdate, AreaStatus{AreaID: slug}))
	}
	h.persistPosition(c.userID)
}

// leaveArea reverses joinArea. Leaving an area never joined is a
// no-op.
func (h *Hub) leaveArea(c *Conn, slug string) {
	if _, ok := c.areas[slug]; !ok {
		return
	}
	delete(c.areas, slug)
	h.rooms.Leave(slug, c)

	if err := h.bumpAreaCounter(slug, -1); err != nil {
		h.log.Warn("area.counter", "slug", slug, "delta", -1, "err", err)
	} else {
		h.rooms.Broadcast(slug, envelope(EvAreaStatusUpdate, AreaStatus{AreaID: slug}))
	}
}

// moveAvatar updates the user's position and ships the full presence
// snapshot to everyone, then persists the position off the hot path.
func (h *Hub) moveAvatar(c *Conn, mv movePayload) {
	if !h.presence.Move(c.userID, mv.X, mv.Y, mv.Area) {
		return
	}
	h.broadcastAvatars()
	h.persistPosition(c.userID)
}

// sendRoomMessage relays a chat message to a room the sender is a
// member of. Messages to rooms never joined are dropped, not errors.
func (h *Hub) sendRoomMessage(c *Conn, p roomMessagePayload) {
	if p.Room == "" || p.Text == "" {
		return
	}
	if !h.rooms.Contains(p.Room, c) {
		h.log.Debug("chat.room.notmember", "userId", c.userID, "room", p.Room)
		return
	}
	h.rooms.Broadcast(p.Room, envelope(EvReceiveRoomMessage, RoomMessage{
		Sender:    c.userID,
		Text:      p.Text,
		Room:      p.Room,
		CreatedAt: time.Now().UTC(),
	}))
}

// sendPrivateMessage delivers to the receiver's current connection
// only. Offline receiver: silently dropped, fire-and-forget.
func (h *Hub) sendPrivateMessage(c *Conn, p privateMessagePayload) {
	if p.ReceiverID == "" || p.Text == "" {
		return
	}
	rc, ok := h.registry.Lookup(p.ReceiverID)
	if !ok {
		h.log.Debug("chat.private.offline", "from", c.userID, "to", p.ReceiverID)
		return
	}
	rc.send(envelope(EvReceivePrivateMessage, PrivateMessage{
		SenderID:  c.userID,
		Text:      p.Text,
		CreatedAt: time.Now().UTC(),
	}))
}

// joinClubEvent adds the connection to the event room and the user to
// its participants list, then pushes the list to the room.
func (h *Hub) joinClubEvent(c *Conn, room string) {
	if room == "" {
		return
	}
	c.clubs[room] = struct{}{}
	h.rooms.Join(room, c)
	participants := h.rooms.AddParticipant(room, c.userID)
	h.rooms.Broadcast(room, envelope(EvClubEventUpdate, ClubEventUpdate{
		EventRoom:    room,
		Participants: participants,
	}))
}

// leaveClubEvent reverses joinClubEvent; never-joined is a no-op.
func (h *Hub) leaveClubEvent(c *Conn, room string) {
	if _, ok := c.clubs[room]; !ok {
		return
	}
	delete(c.clubs, room)
	h.rooms.Leave(room, c)
	participants := h.rooms.RemoveParticipant(room, c.userID)
	h.rooms.Broadcast(room, envelope(EvClubEventUpdate, ClubEventUpdate{
		EventRoom:    room,
		Participants: participants,
	}))
}

// sendClubMessage relays to the event room. Like the original flow,
// club chat does not require a prior join.
func (h *Hub) sendClubMessage(c *Conn, p clubMessagePayload) {
	if p.EventRoom == "" || p.Text == "" {
		return
	}
	h.rooms.Broadcast(p.EventRoom, envelope(EvReceiveClubMessage, ClubMessage{
		Sender:    c.userID,
		Text:      p.Text,
		EventRoom: p.EventRoom,
		CreatedAt: time.Now().UTC(),
	}))
}

// disconnect unwinds everything the connection registered: area
// counters, room membership, club participation, presence, registry.
// When a reconnect has superseded this connection, the fresher
// session's presence and participation are left alone.
func (h *Hub) disconnect(c *Conn) {
	h.rooms.RemoveConn(c)

	for slug := range c.areas {
		if err := h.bumpAreaCounter(slug, -1); err != nil {
			h.log.Warn("area.counter", "slug", slug, "delta", -1, "err", err)
		} else {
			h.rooms.Broadcast(slug, envelope(EvAreaStatusUpdate, AreaStatus{AreaID: slug}))
		}
	}

	active := h.registry.Unregister(c.userID, c)
	if active {
		h.flushPosition(c.userID)
		h.presence.Remove(c.userID)

		for room, participants := range h.rooms.RemoveParticipantAll(c.userID) {
			h.rooms.Broadcast(room, envelope(EvClubEventUpdate, ClubEventUpdate{
				EventRoom:    room,
				Participants: participants,
			}))
		}

		h.broadcastAvatars()
		h.broadcastOnline()
	}
	h.log.Info("ws.disconnected", "userId", c.userID, "superseded", !active)
}

// bumpAreaCounter adjusts an area's persisted online counter; the
// store clamps it at zero.
func (h *Hub) bumpAreaCounter(slug string, delta int) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	return h.db.IncrementAreaUsersOnline(ctx, slug, delta)
}

// persistPosition writes the user's current position in the
// background. Best-effort: a failed write is logged and forgotten,
// the in-memory avatar is already authoritative for relay.
func (h *Hub) persistPosition(userID string) {
	go h.flushPosition(userID)
}

// flushPosition is the synchronous half of persistPosition, also
// called directly at disconnect to save the last known state.
func (h *Hub) flushPosition(userID string) {
	av, ok := h.presence.Get(userID)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := h.pos.Set(ctx, userID, store.Position{X: av.X, Y: av.Y, AreaSlug: av.AreaSlug}); err != nil {
		h.log.Warn("position.write", "userId", userID, "err", err)
	}
}

// broadcastAvatars ships the full presence snapshot to everyone.
func (h *Hub) broadcastAvatars() {
	h.broadcastAll(envelope(EvAvatarsUpdate, h.presence.Snapshot()))
}

// broadcastOnline ships the online-user list to everyone.
func (h *Hub) broadcastOnline() {
	h.broadcastAll(envelope(EvOnlineUsersUpdate, h.registry.Online()))
}

func (h *Hub) broadcastAll(b []byte) {
	metrics.Broadcasts.Inc()
	h.registry.Each(func(c *Conn) { c.send(b) })
}
