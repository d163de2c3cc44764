package hub

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	c := newTestClient("u1")

	reg.Register(c)

	got, ok := reg.Lookup("u1")
	require.True(t, ok)
	require.Same(t, c, got)
	require.Equal(t, 1, reg.Len())

	_, ok = reg.Lookup("nobody")
	require.False(t, ok)
}

func TestRegistryUnregisterIsConditionalOnHandle(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	current := newTestClient("u1")
	stale := newTestClient("u1")

	reg.Register(current)

	// A stale disconnect must not evict the live connection.
	require.False(t, reg.Unregister("u1", stale))
	got, ok := reg.Lookup("u1")
	require.True(t, ok)
	require.Same(t, current, got)

	require.True(t, reg.Unregister("u1", current))
	_, ok = reg.Lookup("u1")
	require.False(t, ok)

	// Unregistering an absent user is a no-op.
	require.False(t, reg.Unregister("u1", current))
}

func TestRegistryRegisterReplacesAndClosesPrevious(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	first := newTestClient("u1")
	second := newTestClient("u1")

	reg.Register(first)
	reg.Register(second)

	require.Equal(t, 1, reg.Len())
	got, ok := reg.Lookup("u1")
	require.True(t, ok)
	require.Same(t, second, got)

	// The replaced handle is closed and can no longer accept frames.
	require.False(t, first.trySend([]byte("x")))
	require.True(t, second.trySend([]byte("x")))
}

func TestRegistryBroadcastAll(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	sender := newTestClient("u1")
	peerA := newTestClient("u2")
	peerB := newTestClient("u3")
	closed := newTestClient("u4")

	for _, c := range []*Client{sender, peerA, peerB, closed} {
		reg.Register(c)
	}
	closed.close(1000, "")

	frame := []byte(`{"type":"user_status"}`)
	reg.BroadcastAll(frame, sender)

	require.Len(t, peerA.send, 1)
	require.Len(t, peerB.send, 1)
	requireNoFrame(t, sender)
	requireNoFrame(t, closed)
}

func TestRegistryBroadcastToRestrictsToIDSet(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	a := newTestClient("u1")
	b := newTestClient("u2")
	c := newTestClient("u3")
	for _, cl := range []*Client{a, b, c} {
		reg.Register(cl)
	}

	// Absent ids are skipped without error.
	reg.BroadcastTo([]string{"u2", "ghost"}, []byte("x"), nil)

	require.Len(t, b.send, 1)
	requireNoFrame(t, a)
	requireNoFrame(t, c)
}

func TestRegistryOnline(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	reg.Register(newTestClient("u1"))
	reg.Register(newTestClient("u2"))

	require.ElementsMatch(t, []string{"u1", "u2"}, reg.Online())
}

func TestRegistryConcurrentStress(t *testing.T) {
	reg := NewRegistry(zap.NewNop())

	const users = 16
	const iterations = 200

	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%d", i)
			for n := 0; n < iterations; n++ {
				c := newTestClient(id)
				reg.Register(c)
				reg.BroadcastAll([]byte("ping"), nil)
				if n%3 == 0 {
					reg.BroadcastTo([]string{id}, []byte("pong"), nil)
				}
				reg.Unregister(id, c)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 0, reg.Len())
}

func TestRegistryReconnectRace(t *testing.T) {
	reg := NewRegistry(zap.NewNop())

	const iterations = 500

	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < iterations; n++ {
				c := newTestClient("contended")
				reg.Register(c)
				reg.Unregister("contended", c)
			}
		}()
	}
	wg.Wait()

	// Whatever the interleaving, the entry is either gone or unique.
	require.LessOrEqual(t, reg.Len(), 1)
}
