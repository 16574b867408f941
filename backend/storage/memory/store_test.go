package memory

import (
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestRegistry(t *testing.T, eviction EvictionPolicy, ttl time.Duration) *Registry {
	t.Helper()
	logger := zerolog.Nop()
	return NewRegistry(Config{
		Logger:   &logger,
		Eviction: eviction,
		IdleTTL:  ttl,
	})
}

func TestRegistry_EnqueuePreservesOrder(t *testing.T) {
	reg := newTestRegistry(t, EvictNever, 0)
	reg.Ensure("r1")

	want := []string{"v1", "v2", "v3", "v4"}
	for i, v := range want {
		queue, err := reg.Enqueue("r1", v)
		require.NoError(t, err)
		require.Equal(t, want[:i+1], queue)
	}

	queue, err := reg.Snapshot("r1")
	require.NoError(t, err)
	require.Equal(t, want, queue)
}

func TestRegistry_EnsureIsIdempotent(t *testing.T) {
	reg := newTestRegistry(t, EvictNever, 0)

	room := reg.Ensure("r1")
	room.Enqueue("v1")

	require.Same(t, room, reg.Ensure("r1"))
	queue, err := reg.Snapshot("r1")
	require.NoError(t, err)
	require.Equal(t, []string{"v1"}, queue)
}

func TestRegistry_UnknownRoom(t *testing.T) {
	reg := newTestRegistry(t, EvictNever, 0)

	_, err := reg.Enqueue("nope", "v1")
	require.ErrorIs(t, err, ErrRoomNotFound)

	_, _, err = reg.Advance("nope")
	require.ErrorIs(t, err, ErrRoomNotFound)

	_, err = reg.Snapshot("nope")
	require.ErrorIs(t, err, ErrRoomNotFound)

	_, ok := reg.Lookup("nope")
	require.False(t, ok, "failed operations must not create rooms")
}

func TestRegistry_SnapshotIsACopy(t *testing.T) {
	reg := newTestRegistry(t, EvictNever, 0)
	room := reg.Ensure("r1")
	room.Enqueue("v1")

	queue := room.Snapshot()
	queue[0] = "changed"
	require.Equal(t, []string{"v1"}, room.Snapshot())

	empty := reg.Ensure("r2").Snapshot()
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestRegistry_AdvanceEmptyQueue(t *testing.T) {
	reg := newTestRegistry(t, EvictNever, 0)
	room := reg.Ensure("r1")
	room.Enqueue("a")
	_, _, err := reg.Advance("r1")
	require.NoError(t, err)

	_, _, err = reg.Advance("r1")
	require.ErrorIs(t, err, ErrNothingToAdvance)

	current, ok := room.Current()
	require.True(t, ok)
	require.Equal(t, "a", current, "empty advance must leave current unchanged")
	require.Empty(t, room.Snapshot())
}

func TestRegistry_Advance(t *testing.T) {
	reg := newTestRegistry(t, EvictNever, 0)
	room := reg.Ensure("r1")

	_, ok := room.Current()
	require.False(t, ok)

	for _, v := range []string{"a", "b", "c"} {
		room.Enqueue(v)
	}

	current, queue, err := reg.Advance("r1")
	require.NoError(t, err)
	require.Equal(t, "a", current)
	require.Equal(t, []string{"b", "c"}, queue)

	current, ok = room.Current()
	require.True(t, ok)
	require.Equal(t, "a", current)
}

func TestRegistry_ConcurrentEnqueue(t *testing.T) {
	const n = 200
	reg := newTestRegistry(t, EvictNever, 0)
	reg.Ensure("r1")

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := reg.Enqueue("r1", fmt.Sprintf("v%03d", i))
			return err
		})
	}
	require.NoError(t, g.Wait())

	queue, err := reg.Snapshot("r1")
	require.NoError(t, err)
	require.Len(t, queue, n)

	sort.Strings(queue)
	for i := 0; i < n; i++ {
		require.Equal(t, fmt.Sprintf("v%03d", i), queue[i])
	}
}

func TestRegistry_ConcurrentAdvance(t *testing.T) {
	const n = 100
	reg := newTestRegistry(t, EvictNever, 0)
	room := reg.Ensure("r1")
	for i := 0; i < n; i++ {
		room.Enqueue(fmt.Sprintf("v%03d", i))
	}

	var (
		mx     sync.Mutex
		popped = make(map[string]int)
		g      errgroup.Group
	)
	// twice as many callers as items, half of them must find the queue empty
	for i := 0; i < 2*n; i++ {
		g.Go(func() error {
			current, _, err := room.Advance()
			if err == nil {
				mx.Lock()
				popped[current]++
				mx.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Len(t, popped, n)
	for v, cnt := range popped {
		require.Equal(t, 1, cnt, "%s was advanced more than once", v)
	}
	require.Empty(t, room.Snapshot())
}

func TestRegistry_RoomsAreIndependent(t *testing.T) {
	reg := newTestRegistry(t, EvictNever, 0)
	r1 := reg.Ensure("r1")
	r2 := reg.Ensure("r2")

	r1.Enqueue("a")
	r1.Enqueue("b")
	_, _, err := r1.Advance()
	require.NoError(t, err)

	require.Empty(t, r2.Snapshot())
	_, ok := r2.Current()
	require.False(t, ok)
}

func TestRegistry_EvictNever(t *testing.T) {
	reg := newTestRegistry(t, EvictNever, 0)
	reg.Retain("r1")
	reg.Release("r1")

	_, ok := reg.Lookup("r1")
	require.True(t, ok)
	require.Zero(t, reg.Members("r1"))
}

func TestRegistry_EvictImmediate(t *testing.T) {
	reg := newTestRegistry(t, EvictImmediate, 0)
	reg.Retain("r1")
	reg.Retain("r1")
	require.Equal(t, 2, reg.Members("r1"))

	reg.Release("r1")
	_, ok := reg.Lookup("r1")
	require.True(t, ok, "room with a member left must survive")

	reg.Release("r1")
	_, ok = reg.Lookup("r1")
	require.False(t, ok)

	// extra release of an evicted room is a no-op
	reg.Release("r1")
}

func TestRegistry_EvictedHandleRefusesMutations(t *testing.T) {
	reg := newTestRegistry(t, EvictImmediate, 0)
	reg.Retain("r1")
	stale, ok := reg.Lookup("r1")
	require.True(t, ok)

	// last member leaves while another caller still holds the handle
	reg.Release("r1")

	_, err := stale.Enqueue("v1")
	require.ErrorIs(t, err, ErrRoomNotFound)
	_, _, err = stale.Advance()
	require.ErrorIs(t, err, ErrRoomNotFound)
	require.False(t, stale.Exclusive(func() {
		t.Fatal("must not run on an evicted room")
	}))

	fresh := reg.Retain("r1")
	require.NotSame(t, stale, fresh)
	queue, err := reg.Snapshot("r1")
	require.NoError(t, err)
	require.Empty(t, queue)

	queue, err = fresh.Enqueue("v2")
	require.NoError(t, err)
	require.Equal(t, []string{"v2"}, queue)
}

func TestRegistry_EvictionWaitsForExclusive(t *testing.T) {
	reg := newTestRegistry(t, EvictImmediate, 0)
	room := reg.Retain("r1")

	entered, proceed := make(chan struct{}), make(chan struct{})
	var (
		done       = make(chan bool)
		enqueueErr error
	)
	go func() {
		done <- room.Exclusive(func() {
			close(entered)
			<-proceed
			_, enqueueErr = room.Enqueue("v1")
		})
	}()
	<-entered

	released := make(chan struct{})
	go func() {
		reg.Release("r1")
		close(released)
	}()

	select {
	case <-released:
		t.Fatal("eviction must wait for the running dispatch")
	case <-time.After(50 * time.Millisecond):
	}
	close(proceed)
	require.True(t, <-done)
	require.NoError(t, enqueueErr)
	<-released

	_, err := room.Enqueue("v2")
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRegistry_EvictIdle(t *testing.T) {
	reg := newTestRegistry(t, EvictIdle, 20*time.Millisecond)
	reg.Retain("r1").Enqueue("v1")
	reg.Release("r1")

	_, ok := reg.Lookup("r1")
	require.True(t, ok, "idle room must stay until ttl passes")

	require.Eventually(t, func() bool {
		_, ok := reg.Lookup("r1")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestRegistry_RetainCancelsIdleEviction(t *testing.T) {
	reg := newTestRegistry(t, EvictIdle, 30*time.Millisecond)
	room := reg.Retain("r1")
	room.Enqueue("v1")
	reg.Release("r1")

	require.Same(t, room, reg.Retain("r1"))
	time.Sleep(90 * time.Millisecond)

	_, ok := reg.Lookup("r1")
	require.True(t, ok)
	require.Equal(t, []string{"v1"}, room.Snapshot())
}

func TestParseEvictionPolicy(t *testing.T) {
	for _, s := range []string{"never", "immediate", "idle"} {
		p, err := ParseEvictionPolicy(s)
		require.NoError(t, err)
		require.Equal(t, EvictionPolicy(s), p)
	}
	_, err := ParseEvictionPolicy("sometimes")
	require.ErrorIs(t, err, ErrUnknownEviction)
}
