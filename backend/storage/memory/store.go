package memory

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adwski/watchparty/backend/metrics"
	"github.com/rs/zerolog"
)

const (
	defaultIdleTTL = 10 * time.Minute
)

var (
	ErrRoomNotFound     = errors.New("room is not found")
	ErrNothingToAdvance = errors.New("queue is empty")
	ErrUnknownEviction  = errors.New("unknown eviction policy")
)

// EvictionPolicy decides what happens to a room once its last member is released.
type EvictionPolicy string

const (
	EvictNever     EvictionPolicy = "never"
	EvictImmediate EvictionPolicy = "immediate"
	EvictIdle      EvictionPolicy = "idle"
)

func ParseEvictionPolicy(s string) (EvictionPolicy, error) {
	switch p := EvictionPolicy(s); p {
	case EvictNever, EvictImmediate, EvictIdle:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEviction, s)
}

// Room is a handle to a room held by the Registry.
// Once the room is evicted the handle refuses every operation with ErrRoomNotFound.
type Room struct {
	id string

	// seq serializes dispatch of events for this room,
	// mx guards queue, current and evicted.
	// evicted is only set while holding both.
	seq     sync.Mutex
	mx      sync.Mutex
	evicted bool

	queue   []string
	current string

	// guarded by Registry.mx
	members int
	gen     uint64
	timer   *time.Timer
}

func (r *Room) ID() string {
	return r.id
}

// Exclusive runs fn while holding the room's dispatch lock.
// Mutations and broadcasts done inside fn are observed by members in the same order.
// It returns false without running fn if the room was evicted.
func (r *Room) Exclusive(fn func()) bool {
	r.seq.Lock()
	defer r.seq.Unlock()
	if r.evicted {
		return false
	}
	fn()
	return true
}

// Snapshot returns a copy of the queue, never nil.
func (r *Room) Snapshot() []string {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.snapshot()
}

func (r *Room) snapshot() []string {
	q := make([]string, len(r.queue))
	copy(q, r.queue)
	return q
}

// Enqueue appends videoID to the tail and returns the queue after insertion.
func (r *Room) Enqueue(videoID string) ([]string, error) {
	r.mx.Lock()
	defer r.mx.Unlock()
	if r.evicted {
		return nil, ErrRoomNotFound
	}
	r.queue = append(r.queue, videoID)
	return r.snapshot(), nil
}

// Advance promotes the queue head to current item.
// If the queue is empty nothing changes and ErrNothingToAdvance is returned.
func (r *Room) Advance() (string, []string, error) {
	r.mx.Lock()
	defer r.mx.Unlock()
	if r.evicted {
		return "", nil, ErrRoomNotFound
	}
	if len(r.queue) == 0 {
		return "", nil, ErrNothingToAdvance
	}
	r.current = r.queue[0]
	r.queue[0] = ""
	r.queue = r.queue[1:]
	return r.current, r.snapshot(), nil
}

// Current returns the now playing item, ok is false if nothing was advanced yet.
func (r *Room) Current() (string, bool) {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.current, r.current != ""
}

type Config struct {
	Logger   *zerolog.Logger
	Eviction EvictionPolicy
	IdleTTL  time.Duration
}

// Registry owns room state. Rooms are created on first access
// and removed according to the eviction policy once nobody is retaining them.
type Registry struct {
	logger   zerolog.Logger
	mx       *sync.Mutex
	db       map[string]*Room
	eviction EvictionPolicy
	idleTTL  time.Duration
}

func NewRegistry(cfg Config) *Registry {
	eviction := cfg.Eviction
	if eviction == "" {
		eviction = EvictIdle
	}
	idleTTL := cfg.IdleTTL
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	return &Registry{
		logger:   cfg.Logger.With().Str("component", "registry").Logger(),
		mx:       &sync.Mutex{},
		db:       make(map[string]*Room),
		eviction: eviction,
		idleTTL:  idleTTL,
	}
}

// Ensure returns the room for roomID, creating it with empty state if absent.
func (reg *Registry) Ensure(roomID string) *Room {
	reg.mx.Lock()
	defer reg.mx.Unlock()
	return reg.ensure(roomID)
}

func (reg *Registry) ensure(roomID string) *Room {
	room, ok := reg.db[roomID]
	if !ok {
		room = &Room{id: roomID}
		reg.db[roomID] = room
		metrics.Rooms.Inc()
		reg.logger.Debug().Str("roomID", roomID).Msg("room created")
	}
	return room
}

// Retain ensures the room and counts one more member in it.
// A pending idle eviction is cancelled.
func (reg *Registry) Retain(roomID string) *Room {
	reg.mx.Lock()
	defer reg.mx.Unlock()

	room := reg.ensure(roomID)
	room.members++
	room.gen++
	if room.timer != nil {
		room.timer.Stop()
		room.timer = nil
	}
	return room
}

// Release counts one member less in the room and applies the eviction policy
// when no members are left.
func (reg *Registry) Release(roomID string) {
	reg.mx.Lock()
	defer reg.mx.Unlock()

	room, ok := reg.db[roomID]
	if !ok || room.members == 0 {
		return
	}
	room.members--
	if room.members > 0 {
		return
	}
	room.gen++

	switch reg.eviction {
	case EvictImmediate:
		reg.evict(room)
	case EvictIdle:
		gen := room.gen
		room.timer = time.AfterFunc(reg.idleTTL, func() {
			reg.evictIdle(room, gen)
		})
	}
}

func (reg *Registry) evictIdle(room *Room, gen uint64) {
	reg.mx.Lock()
	defer reg.mx.Unlock()

	// room was retained (and maybe released again) after the timer was armed
	if room.gen != gen || room.members > 0 {
		return
	}
	reg.evict(room)
}

func (reg *Registry) evict(room *Room) {
	if reg.db[room.id] != room {
		return
	}
	delete(reg.db, room.id)
	room.timer = nil

	// waits for an in-flight dispatch, later ones see the room as gone
	room.seq.Lock()
	room.mx.Lock()
	room.evicted = true
	room.mx.Unlock()
	room.seq.Unlock()

	metrics.Rooms.Dec()
	reg.logger.Debug().Str("roomID", room.id).Msg("room evicted")
}

// Lookup returns the room handle if the room exists.
func (reg *Registry) Lookup(roomID string) (*Room, bool) {
	reg.mx.Lock()
	defer reg.mx.Unlock()
	room, ok := reg.db[roomID]
	return room, ok
}

// Members returns how many members currently retain the room.
func (reg *Registry) Members(roomID string) int {
	reg.mx.Lock()
	defer reg.mx.Unlock()
	if room, ok := reg.db[roomID]; ok {
		return room.members
	}
	return 0
}

func (reg *Registry) Snapshot(roomID string) ([]string, error) {
	room, ok := reg.Lookup(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room.Snapshot(), nil
}

func (reg *Registry) Enqueue(roomID, videoID string) ([]string, error) {
	room, ok := reg.Lookup(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room.Enqueue(videoID)
}

func (reg *Registry) Advance(roomID string) (string, []string, error) {
	room, ok := reg.Lookup(roomID)
	if !ok {
		return "", nil, ErrRoomNotFound
	}
	return room.Advance()
}
