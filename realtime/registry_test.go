package realtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFirstAndAdditionalConnections(t *testing.T) {
	r := NewRegistry()
	alice := Identity{UserID: "u1", Name: "Alice"}

	first := r.Register("conn-1", alice)
	require.True(t, first, "first connection should report the 0->1 transition")

	second := r.Register("conn-2", alice)
	require.False(t, second, "second tab must not re-report the transition")

	assert.Equal(t, 2, r.ConnectionCount("u1"))
	assert.True(t, r.IsOnline("u1"))
}

func TestUnregisterReportsLastConnection(t *testing.T) {
	r := NewRegistry()
	alice := Identity{UserID: "u1", Name: "Alice"}
	r.Register("conn-1", alice)
	r.Register("conn-2", alice)

	identity, found, last := r.Unregister("conn-1")
	require.True(t, found)
	assert.False(t, last)
	assert.Equal(t, "u1", identity.UserID)
	assert.True(t, r.IsOnline("u1"))

	identity, found, last = r.Unregister("conn-2")
	require.True(t, found)
	assert.True(t, last)
	assert.Equal(t, "u1", identity.UserID)

	// The user entry is gone entirely, not left as an empty set
	assert.False(t, r.IsOnline("u1"))
	assert.Equal(t, 0, r.ConnectionCount("u1"))
}

func TestUnregisterUnknownConnection(t *testing.T) {
	r := NewRegistry()
	r.Register("conn-1", Identity{UserID: "u1"})

	_, found, last := r.Unregister("never-registered")
	assert.False(t, found)
	assert.False(t, last)

	// No mutation happened
	assert.True(t, r.IsOnline("u1"))
	assert.Equal(t, 1, r.ConnectionCount("u1"))
}

func TestRegisterSameConnectionTwice(t *testing.T) {
	r := NewRegistry()
	r.Register("conn-1", Identity{UserID: "u1", Name: "Alice"})
	again := r.Register("conn-1", Identity{UserID: "u1", Name: "Alice"})

	assert.False(t, again, "duplicate join must not report a presence transition")
	assert.Equal(t, 1, r.ConnectionCount("u1"))

	_, found, last := r.Unregister("conn-1")
	require.True(t, found)
	assert.True(t, last)
	assert.False(t, r.IsOnline("u1"))
}

func TestReRegisterUnderDifferentUser(t *testing.T) {
	r := NewRegistry()
	r.Register("conn-1", Identity{UserID: "u1"})
	r.Register("conn-1", Identity{UserID: "u2"})

	// The connection must appear under exactly one user
	assert.False(t, r.IsOnline("u1"))
	assert.True(t, r.IsOnline("u2"))
	assert.Equal(t, 1, r.ConnectionCount("u2"))
}

func TestOnlineUsersOnePerDistinctUser(t *testing.T) {
	r := NewRegistry()
	r.Register("conn-1", Identity{UserID: "u1", Name: "Alice"})
	r.Register("conn-2", Identity{UserID: "u1", Name: "Alice"})
	r.Register("conn-3", Identity{UserID: "u2", Name: "Bob"})

	users := r.OnlineUsers()
	require.Len(t, users, 2)

	ids := []string{users[0].UserID, users[1].UserID}
	assert.ElementsMatch(t, []string{"u1", "u2"}, ids)
}

func TestIdentityLookup(t *testing.T) {
	r := NewRegistry()
	r.Register("conn-1", Identity{UserID: "u1", Name: "Alice", Email: "alice@shop.test"})

	identity, ok := r.Identity("conn-1")
	require.True(t, ok)
	assert.Equal(t, "Alice", identity.Name)

	_, ok = r.Identity("conn-2")
	assert.False(t, ok)
}

func TestConcurrentRegisterUnregister(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connID := fmt.Sprintf("conn-%d", i)
			r.Register(connID, Identity{UserID: "u1"})
			r.Unregister(connID)
		}(i)
	}
	wg.Wait()

	// Every goroutine removed its own connection, so the user ends offline
	assert.False(t, r.IsOnline("u1"))
	assert.Empty(t, r.OnlineUsers())
}
