package realtime

import (
	"time"

	"github.com/madebyaram2024/PPC-CRM-sub000/utils"
)

// presenceNotifier announces online/offline transitions to the general room.
// The registry coalesces per-connection churn into per-user transitions: a
// second tab never re-announces, and offline fires only when the last tab
// closes.
type presenceNotifier struct {
	rooms  *RoomManager
	logger *utils.Logger
}

func newPresenceNotifier(rooms *RoomManager, logger *utils.Logger) *presenceNotifier {
	return &presenceNotifier{rooms: rooms, logger: logger}
}

// userOnline announces a 0->1 connection transition. The triggering
// connection is excluded; it learns its own presence from the join it sent.
func (p *presenceNotifier) userOnline(identity Identity, exclude *Client) {
	p.logger.Info("User online", "userId", identity.UserID, "name", identity.Name)
	p.rooms.Emit(RoomGeneral, eventUserOnline, PresenceEvent{
		UserID:    identity.UserID,
		Name:      identity.Name,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, exclude)
}

// userOffline announces a 1->0 connection transition.
func (p *presenceNotifier) userOffline(identity Identity) {
	p.logger.Info("User offline", "userId", identity.UserID, "name", identity.Name)
	p.rooms.Emit(RoomGeneral, eventUserOffline, PresenceEvent{
		UserID:    identity.UserID,
		Name:      identity.Name,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil)
}
