package realtime

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/madebyaram2024/PPC-CRM-sub000/utils"
)

func testLogger() *utils.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1})
	return &utils.Logger{Logger: slog.New(handler)}
}

func newTestRouter() (*Router, *Registry, *RoomManager) {
	registry := NewRegistry()
	rooms := NewRoomManager(testLogger())
	return NewRouter(registry, rooms, testLogger()), registry, rooms
}

// newTestClient builds a client with no underlying socket; emitted frames
// accumulate in its send buffer.
func newTestClient(id string) *Client {
	return newClient(id, nil, testLogger(), 64, time.Minute, time.Minute, time.Second)
}

func frame(t *testing.T, event string, data interface{}) []byte {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	raw, err := json.Marshal(envelope{Event: event, Data: payload})
	require.NoError(t, err)
	return raw
}

// joinAs runs the full identity join for a client.
func joinAs(t *testing.T, r *Router, c *Client, userID, name string) {
	t.Helper()
	r.HandleEvent(c, frame(t, eventJoin, Identity{UserID: userID, Name: name}))
}

// recvFrame pops the next queued outbound frame, failing when none is queued.
func recvFrame(t *testing.T, c *Client) envelope {
	t.Helper()
	select {
	case raw := <-c.send:
		var env envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	default:
		t.Fatal("expected a queued frame, got none")
		return envelope{}
	}
}

// requireNoFrame asserts the client's send buffer is empty.
func requireNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("expected no queued frame, got %s", raw)
	default:
	}
}

// drain empties a client's send buffer.
func drain(c *Client) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}

func decodePayload(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}
