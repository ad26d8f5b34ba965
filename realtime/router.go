package realtime

import (
	"time"

	"github.com/madebyaram2024/PPC-CRM-sub000/utils"
)

// Router dispatches decoded client events to handlers that mutate the
// registry and fan out to rooms. Each connection drives it from its own read
// goroutine; the registry and room manager serialize the shared state.
//
// Every event is processed inside a fault boundary: a panic or decode error
// in one event is logged and swallowed, never tearing down the connection or
// touching other connections.
type Router struct {
	registry *Registry
	rooms    *RoomManager
	presence *presenceNotifier
	logger   *utils.Logger

	// offlineHook, when set, observes 1->0 presence transitions (used to
	// persist last-seen timestamps). Called outside any lock.
	offlineHook func(identity Identity)
}

func NewRouter(registry *Registry, rooms *RoomManager, logger *utils.Logger) *Router {
	return &Router{
		registry: registry,
		rooms:    rooms,
		presence: newPresenceNotifier(rooms, logger),
		logger:   logger,
	}
}

// SetOfflineHook registers a callback for user offline transitions. Must be
// called before the server starts accepting connections.
func (r *Router) SetOfflineHook(hook func(identity Identity)) {
	r.offlineHook = hook
}

// HandleConnect greets a freshly upgraded connection. The connection is in
// no rooms and carries no identity until it sends a join.
func (r *Router) HandleConnect(c *Client) {
	frame, err := marshalEvent(eventWelcome, map[string]string{
		"connectionId": c.ID(),
		"timestamp":    serverTimestamp(),
	})
	if err != nil {
		r.logger.Error("Failed to encode welcome event", "error", err)
		return
	}
	c.trySend(frame)
}

// HandleEvent decodes and dispatches one inbound frame.
func (r *Router) HandleEvent(c *Client, raw []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Recovered from panic in event handler", "connection", c.ID(), "panic", rec)
		}
	}()

	event, err := decodeInbound(raw)
	if err != nil {
		// Malformed payloads are dropped; the connection stays alive.
		r.logger.Warn("Dropping malformed event", "connection", c.ID(), "error", err)
		return
	}

	switch e := event.(type) {
	case establishIdentity:
		r.handleJoin(c, e.Identity)
	case subscribeToRoom:
		r.rooms.Join(c, e.Room)
	case unsubscribeFromRoom:
		r.rooms.Leave(c, e.Room)
	case broadcastMessage:
		r.handleBroadcast(c, e.Message)
	case privateMessage:
		r.handlePrivate(c, e.Message)
	case contextMessage:
		r.handleContextMessage(c, e)
	case typingEvent:
		r.handleTyping(c, e)
	}
}

// HandleDisconnect tears down a connection's registrations. Disconnects of
// connections that never joined are tolerated as already-clean state.
func (r *Router) HandleDisconnect(c *Client) {
	r.rooms.LeaveAll(c)

	identity, found, lastConnection := r.registry.Unregister(c.ID())
	if !found {
		r.logger.Debug("Disconnect of unregistered connection", "connection", c.ID())
		return
	}

	r.logger.Debug("Connection closed", "connection", c.ID(), "userId", identity.UserID)
	if lastConnection {
		r.presence.userOffline(identity)
		if r.offlineHook != nil {
			r.offlineHook(identity)
		}
	}
}

// handleJoin registers the connection's identity and places it into its
// default rooms. Presence is announced only for the user's first connection.
func (r *Router) handleJoin(c *Client, identity Identity) {
	firstConnection := r.registry.Register(c.ID(), identity)
	r.rooms.Join(c, UserRoom(identity.UserID))
	r.rooms.Join(c, RoomGeneral)

	r.logger.Debug("Connection joined", "connection", c.ID(), "userId", identity.UserID, "first", firstConnection)
	if firstConnection {
		r.presence.userOnline(identity, c)
	}
}

func (r *Router) handleBroadcast(c *Client, msg Message) {
	stampIfMissing(&msg)
	r.rooms.Emit(RoomGeneral, eventBroadcastMessage, msg, c)
}

// handlePrivate routes to the recipient's user room. A recipient with no
// active connections means the room does not exist and the message vanishes;
// there is no queueing and no error back to the sender.
func (r *Router) handlePrivate(c *Client, msg Message) {
	stampIfMissing(&msg)
	r.rooms.Emit(UserRoom(msg.RecipientID), eventPrivateMessage, msg, c)
}

// handleContextMessage implements join-on-send: the first message a user
// sends about a work order, invoice or customer subscribes their connection
// to that entity's room.
func (r *Router) handleContextMessage(c *Client, e contextMessage) {
	room := ContextRoom(e.Context, e.ContextID)
	r.rooms.Join(c, room)

	msg := e.Message
	stampIfMissing(&msg)
	r.rooms.Emit(room, e.Event, msg, c)
}

func (r *Router) handleTyping(c *Client, e typingEvent) {
	room := RoomGeneral
	if e.Indicator.Context != ContextGeneral {
		if e.Indicator.ContextID == "" {
			r.logger.Warn("Dropping typing indicator without contextId", "connection", c.ID(), "context", e.Indicator.Context)
			return
		}
		room = ContextRoom(e.Indicator.Context, e.Indicator.ContextID)
	}
	r.rooms.Emit(room, e.Event, e.Indicator, c)
}

// stampIfMissing server-stamps a message that arrived without a timestamp.
// A client-supplied timestamp is passed through verbatim; routing order
// follows server arrival, never the claimed clock.
func stampIfMissing(msg *Message) {
	if msg.Timestamp == "" {
		msg.Timestamp = serverTimestamp()
	}
}

func serverTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
