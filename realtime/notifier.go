package realtime

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/madebyaram2024/PPC-CRM-sub000/models"
	"github.com/madebyaram2024/PPC-CRM-sub000/utils"
)

// Notifier lets code outside the realtime subsystem (work-order CRUD
// handlers) push one-shot notifications into rooms without knowing anything
// about connections or routing. Handlers receive it by injection; a nil
// Notifier (realtime server not running) makes every method a logged no-op,
// so the enclosing database operation always succeeds regardless of whether
// realtime delivery is available.
type Notifier struct {
	rooms  *RoomManager
	logger *utils.Logger
}

func NewNotifier(rooms *RoomManager, logger *utils.Logger) *Notifier {
	return &Notifier{rooms: rooms, logger: logger}
}

// NotifyWorkOrderCreated announces a new work order to the general room.
func (n *Notifier) NotifyWorkOrderCreated(wo *models.WorkOrder) {
	n.emit(Notification{
		Type:            "workOrderCreated",
		Title:           "New Work Order",
		Message:         fmt.Sprintf("Work order %s created: %s", wo.Number, wo.Title),
		WorkOrderID:     wo.ID.String(),
		WorkOrderNumber: wo.Number,
	})
}

// NotifyWorkOrderUpdated announces a work-order change to the general room.
func (n *Notifier) NotifyWorkOrderUpdated(wo *models.WorkOrder) {
	n.emit(Notification{
		Type:            "workOrderUpdated",
		Title:           "Work Order Updated",
		Message:         fmt.Sprintf("Work order %s updated: %s", wo.Number, wo.Title),
		WorkOrderID:     wo.ID.String(),
		WorkOrderNumber: wo.Number,
	})
}

// NotifyWorkOrderCompleted announces a completed work order to the general room.
func (n *Notifier) NotifyWorkOrderCompleted(wo *models.WorkOrder) {
	n.emit(Notification{
		Type:            "workOrderCompleted",
		Title:           "Work Order Completed",
		Message:         fmt.Sprintf("Work order %s completed: %s", wo.Number, wo.Title),
		WorkOrderID:     wo.ID.String(),
		WorkOrderNumber: wo.Number,
	})
}

func (n *Notifier) emit(notification Notification) {
	if n == nil || n.rooms == nil {
		slog.Warn("Realtime notifier not initialized, dropping notification", "type", notification.Type)
		return
	}
	notification.Timestamp = time.Now().UTC().Format(time.RFC3339)
	n.logger.Debug("Pushing notification", "type", notification.Type, "workOrderId", notification.WorkOrderID)
	n.rooms.Emit(RoomGeneral, eventNotification, notification, nil)
}
