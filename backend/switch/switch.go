package _switch

import (
	"sort"
	"sync"

	"github.com/adwski/watchparty/backend/metrics"
	"github.com/adwski/watchparty/backend/model"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Switch tracks which connection is a member of which room
// and delivers messages to room members.
type Switch struct {
	logger zerolog.Logger
	mx     *sync.RWMutex
	fwd    map[string]map[string]model.Wire // roomID -> connID -> wire
	member map[string]string                // connID -> roomID
}

func NewSwitch(logger *zerolog.Logger) *Switch {
	return &Switch{
		logger: logger.With().Str("component", "switch").Logger(),
		mx:     &sync.RWMutex{},
		fwd:    make(map[string]map[string]model.Wire),
		member: make(map[string]string),
	}
}

// Join makes connID a member of roomID. If the connection was already a member
// of some room (including roomID itself), that membership is replaced in the same step
// and returned as prev.
func (sw *Switch) Join(roomID, connID string, wire model.Wire) (prev string, rejoined bool) {
	sw.mx.Lock()
	defer sw.mx.Unlock()

	prev, rejoined = sw.member[connID]
	if rejoined {
		sw.leave(prev, connID)
	}

	room, ok := sw.fwd[roomID]
	if !ok {
		room = make(map[string]model.Wire)
		sw.fwd[roomID] = room
	}
	room[connID] = wire
	sw.member[connID] = roomID

	sw.logger.Debug().
		Str("roomID", roomID).
		Str("connID", connID).
		Str("prevRoomID", prev).
		Msg("connection joined room")
	return prev, rejoined
}

// Disconnect removes connID from its room. It returns the room the connection was in.
func (sw *Switch) Disconnect(connID string) (string, bool) {
	sw.mx.Lock()
	defer sw.mx.Unlock()

	roomID, ok := sw.member[connID]
	if !ok {
		return "", false
	}
	sw.leave(roomID, connID)
	delete(sw.member, connID)

	sw.logger.Debug().
		Str("roomID", roomID).
		Str("connID", connID).
		Msg("connection left room")
	return roomID, true
}

func (sw *Switch) leave(roomID, connID string) {
	room, ok := sw.fwd[roomID]
	if !ok {
		return
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(sw.fwd, roomID)
	}
}

// RoomOf returns the room connID is a member of.
func (sw *Switch) RoomOf(connID string) (string, bool) {
	sw.mx.RLock()
	defer sw.mx.RUnlock()
	roomID, ok := sw.member[connID]
	return roomID, ok
}

// Members returns sorted connection ids of the room members.
func (sw *Switch) Members(roomID string) []string {
	sw.mx.RLock()
	members := lo.Keys(sw.fwd[roomID])
	sw.mx.RUnlock()

	sort.Strings(members)
	return members
}

// Broadcast delivers msg to every member of roomID and returns the number of members reached.
func (sw *Switch) Broadcast(roomID string, msg model.Message) int {
	sw.mx.RLock()
	defer sw.mx.RUnlock()

	var sent int
	for connID, wire := range sw.fwd[roomID] {
		if send(msg, wire.TX) {
			sent++
		} else {
			sw.dropped(roomID, connID, msg)
		}
	}
	if sent == 0 {
		sw.logger.Debug().
			Str("roomID", roomID).
			Str("type", msg.Type).
			Msg("broadcast did not reach anyone")
	}
	return sent
}

// Send delivers msg to a single connection if it is a member of any room.
func (sw *Switch) Send(connID string, msg model.Message) bool {
	sw.mx.RLock()
	defer sw.mx.RUnlock()

	roomID, ok := sw.member[connID]
	if !ok {
		sw.logger.Debug().Str("connID", connID).Msg("cannot send, connection not found")
		return false
	}
	if !send(msg, sw.fwd[roomID][connID].TX) {
		sw.dropped(roomID, connID, msg)
		return false
	}
	return true
}

func (sw *Switch) dropped(roomID, connID string, msg model.Message) {
	metrics.DeliveriesDropped.Inc()
	sw.logger.Warn().
		Str("roomID", roomID).
		Str("connID", connID).
		Str("type", msg.Type).
		Msg("send buffer is full, message dropped")
}

// send never blocks, a member that does not keep up loses the message.
func send(msg model.Message, tx chan<- model.Message) bool {
	select {
	case tx <- msg:
		return true
	default:
		return false
	}
}
