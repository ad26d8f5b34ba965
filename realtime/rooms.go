package realtime

import (
	"fmt"
	"sync"

	"github.com/madebyaram2024/PPC-CRM-sub000/utils"
)

// Room context names used to namespace room keys and typing indicators.
const (
	ContextGeneral   = "general"
	ContextWorkOrder = "workOrder"
	ContextInvoice   = "invoice"
	ContextCustomer  = "customer"
)

// RoomGeneral is the company-wide room every joined connection belongs to.
const RoomGeneral = "company:general"

// UserRoom returns the per-user room key; every connection a user opens
// joins it, so private messages reach all of the user's tabs.
func UserRoom(userID string) string {
	return "user:" + userID
}

// ContextRoom returns the room key for a domain entity, e.g. "workOrder:42".
func ContextRoom(context, contextID string) string {
	return fmt.Sprintf("%s:%s", context, contextID)
}

// RoomManager groups connections into named rooms and fans events out to
// them. Rooms exist implicitly: created on first join, dropped when the last
// member leaves.
type RoomManager struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *utils.Logger
}

func NewRoomManager(logger *utils.Logger) *RoomManager {
	return &RoomManager{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

// Join adds a connection to a room. Joining a room the connection is already
// in is a no-op.
func (m *RoomManager) Join(c *Client, room string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	members, ok := m.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		m.rooms[room] = members
	}
	members[c] = struct{}{}
}

// Leave removes a connection from a room. Leaving a room the connection is
// not in is a no-op.
func (m *RoomManager) Leave(c *Client, room string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveLocked(c, room)
}

// LeaveAll removes a connection from every room it is in. Called on
// disconnect.
func (m *RoomManager) LeaveAll(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for room := range m.rooms {
		m.leaveLocked(c, room)
	}
}

func (m *RoomManager) leaveLocked(c *Client, room string) {
	members, ok := m.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(m.rooms, room)
	}
}

// Emit sends an event to every member of a room, skipping exclude when it is
// non-nil (a sender never receives its own message back). Emitting to an
// empty or nonexistent room is a no-op.
func (m *RoomManager) Emit(room, event string, data interface{}, exclude *Client) {
	frame, err := marshalEvent(event, data)
	if err != nil {
		m.logger.Error("Failed to encode room event", "room", room, "event", event, "error", err)
		return
	}

	m.mu.RLock()
	members := make([]*Client, 0, len(m.rooms[room]))
	for c := range m.rooms[room] {
		if c != exclude {
			members = append(members, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range members {
		if !c.trySend(frame) {
			m.logger.Warn("Dropping event for slow connection", "room", room, "event", event, "connection", c.ID())
		}
	}
}

// Contains reports whether a connection is a member of a room.
func (m *RoomManager) Contains(c *Client, room string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rooms[room][c]
	return ok
}

// MemberCount returns the number of connections in a room.
func (m *RoomManager) MemberCount(room string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[room])
}
