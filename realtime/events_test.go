package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJoinWithIdentityObject(t *testing.T) {
	raw := []byte(`{"event":"join","data":{"userId":"u1","name":"Alice","email":"a@shop.test","role":"admin"}}`)

	event, err := decodeInbound(raw)
	require.NoError(t, err)

	join, ok := event.(establishIdentity)
	require.True(t, ok)
	assert.Equal(t, "u1", join.Identity.UserID)
	assert.Equal(t, "Alice", join.Identity.Name)
}

func TestDecodeJoinWithRoomString(t *testing.T) {
	raw := []byte(`{"event":"join","data":"workOrder:42"}`)

	event, err := decodeInbound(raw)
	require.NoError(t, err)

	sub, ok := event.(subscribeToRoom)
	require.True(t, ok)
	assert.Equal(t, "workOrder:42", sub.Room)
}

func TestDecodeJoinWithoutUserID(t *testing.T) {
	raw := []byte(`{"event":"join","data":{"name":"Nobody"}}`)
	_, err := decodeInbound(raw)
	assert.Error(t, err)
}

func TestDecodeJoinRoomAndLeaveRoom(t *testing.T) {
	event, err := decodeInbound([]byte(`{"event":"joinRoom","data":"customer:9"}`))
	require.NoError(t, err)
	sub, ok := event.(subscribeToRoom)
	require.True(t, ok)
	assert.Equal(t, "customer:9", sub.Room)

	event, err = decodeInbound([]byte(`{"event":"leaveRoom","data":"customer:9"}`))
	require.NoError(t, err)
	unsub, ok := event.(unsubscribeFromRoom)
	require.True(t, ok)
	assert.Equal(t, "customer:9", unsub.Room)
}

func TestDecodeMessageVariants(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantContext string
		wantID      string
	}{
		{"workOrder", `{"event":"workOrderMessage","data":{"text":"hi","senderId":"u1","senderName":"A","workOrderId":"42"}}`, ContextWorkOrder, "42"},
		{"invoice", `{"event":"invoiceMessage","data":{"text":"hi","senderId":"u1","senderName":"A","invoiceId":"7"}}`, ContextInvoice, "7"},
		{"customer", `{"event":"customerMessage","data":{"text":"hi","senderId":"u1","senderName":"A","customerId":"9"}}`, ContextCustomer, "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := decodeInbound([]byte(tt.raw))
			require.NoError(t, err)

			msg, ok := event.(contextMessage)
			require.True(t, ok)
			assert.Equal(t, tt.wantContext, msg.Context)
			assert.Equal(t, tt.wantID, msg.ContextID)
			assert.Equal(t, "hi", msg.Message.Text)
		})
	}
}

func TestDecodeBroadcastAndPrivate(t *testing.T) {
	event, err := decodeInbound([]byte(`{"event":"broadcastMessage","data":{"text":"all","senderId":"u1","senderName":"A"}}`))
	require.NoError(t, err)
	_, ok := event.(broadcastMessage)
	assert.True(t, ok)

	event, err = decodeInbound([]byte(`{"event":"privateMessage","data":{"text":"psst","senderId":"u1","senderName":"A","recipientId":"u2"}}`))
	require.NoError(t, err)
	pm, ok := event.(privateMessage)
	require.True(t, ok)
	assert.Equal(t, "u2", pm.Message.RecipientID)
}

func TestDecodeRejectsIncompletePayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"no event name", `{"data":{}}`},
		{"unknown event", `{"event":"selfDestruct","data":{}}`},
		{"broadcast without text", `{"event":"broadcastMessage","data":{"senderId":"u1"}}`},
		{"private without recipient", `{"event":"privateMessage","data":{"text":"hi","senderId":"u1"}}`},
		{"workOrder without id", `{"event":"workOrderMessage","data":{"text":"hi","senderId":"u1"}}`},
		{"joinRoom without name", `{"event":"joinRoom","data":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeInbound([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestDecodeTyping(t *testing.T) {
	event, err := decodeInbound([]byte(`{"event":"typing","data":{"userId":"u1","userName":"A","context":"general"}}`))
	require.NoError(t, err)

	typing, ok := event.(typingEvent)
	require.True(t, ok)
	assert.Equal(t, eventTyping, typing.Event)
	assert.Equal(t, ContextGeneral, typing.Indicator.Context)

	event, err = decodeInbound([]byte(`{"event":"stopTyping","data":{"userId":"u1","userName":"A","context":"workOrder","contextId":"42"}}`))
	require.NoError(t, err)
	stop, ok := event.(typingEvent)
	require.True(t, ok)
	assert.Equal(t, eventStopTyping, stop.Event)
	assert.Equal(t, "42", stop.Indicator.ContextID)
}

func TestMarshalEventRoundTrip(t *testing.T) {
	raw, err := marshalEvent(eventUserOnline, PresenceEvent{UserID: "u1", Name: "Alice", Timestamp: "2026-01-01T00:00:00Z"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"event":"userOnline","data":{"userId":"u1","name":"Alice","timestamp":"2026-01-01T00:00:00Z"}}`, string(raw))
}
