package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madebyaram2024/PPC-CRM-sub000/models"
)

func testWorkOrder() *models.WorkOrder {
	return &models.WorkOrder{
		ID:     uuid.New(),
		Number: "WO-1001",
		Title:  "Mill bracket batch",
	}
}

func TestNilNotifierIsNoop(t *testing.T) {
	var n *Notifier
	// Must not panic; the enclosing CRUD operation succeeds regardless
	n.NotifyWorkOrderCreated(testWorkOrder())
	n.NotifyWorkOrderUpdated(testWorkOrder())
	n.NotifyWorkOrderCompleted(testWorkOrder())
}

func TestNotifyWorkOrderCreated(t *testing.T) {
	rooms := NewRoomManager(testLogger())
	n := NewNotifier(rooms, testLogger())

	member := newTestClient("bob-1")
	rooms.Join(member, RoomGeneral)

	wo := testWorkOrder()
	n.NotifyWorkOrderCreated(wo)

	env := recvFrame(t, member)
	require.Equal(t, eventNotification, env.Event)

	var notification Notification
	decodePayload(t, env, &notification)
	assert.Equal(t, "workOrderCreated", notification.Type)
	assert.Equal(t, wo.ID.String(), notification.WorkOrderID)
	assert.Equal(t, "WO-1001", notification.WorkOrderNumber)
	assert.Contains(t, notification.Message, "Mill bracket batch")
	assert.NotEmpty(t, notification.Timestamp)
}

func TestNotifyWithNoListenersIsNoop(t *testing.T) {
	rooms := NewRoomManager(testLogger())
	n := NewNotifier(rooms, testLogger())

	// Empty general room: nothing to deliver, nothing to fail
	n.NotifyWorkOrderCompleted(testWorkOrder())
}

func TestNotificationTypes(t *testing.T) {
	rooms := NewRoomManager(testLogger())
	n := NewNotifier(rooms, testLogger())

	member := newTestClient("bob-1")
	rooms.Join(member, RoomGeneral)

	wo := testWorkOrder()

	n.NotifyWorkOrderUpdated(wo)
	var notification Notification
	decodePayload(t, recvFrame(t, member), &notification)
	assert.Equal(t, "workOrderUpdated", notification.Type)

	n.NotifyWorkOrderCompleted(wo)
	decodePayload(t, recvFrame(t, member), &notification)
	assert.Equal(t, "workOrderCompleted", notification.Type)
}
