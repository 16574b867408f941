package service

import (
	"context"
	"errors"

	"github.com/adwski/watchparty/backend/metrics"
	"github.com/adwski/watchparty/backend/model"
	"github.com/adwski/watchparty/backend/storage/memory"
	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
)

var (
	ErrGet = errors.New("unable to get room")
)

const (
	reasonRoomUnknown      = "room_unknown"
	reasonNothingToAdvance = "nothing_to_advance"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Registry,Switch

type (
	Registry interface {
		Retain(roomID string) *memory.Room
		Release(roomID string)
		Lookup(roomID string) (*memory.Room, bool)
	}

	Switch interface {
		Join(roomID, connID string, wire model.Wire) (string, bool)
		Disconnect(connID string) (string, bool)
		Broadcast(roomID string, msg model.Message) int
		Send(connID string, msg model.Message) bool
		Members(roomID string) []string
	}

	// Service is the connection relay. It maps inbound events
	// to registry transitions and broadcasts the outcome.
	Service struct {
		rooms  Registry
		sw     Switch
		logger zerolog.Logger
	}

	Config struct {
		Registry Registry
		Switch   Switch
		Logger   *zerolog.Logger
	}
)

func NewService(cfg Config) *Service {
	return &Service{
		rooms:  cfg.Registry,
		sw:     cfg.Switch,
		logger: cfg.Logger.With().Str("component", "relay").Logger(),
	}
}

// ServeSession dispatches events arriving on wire.RX until ctx is done.
// Events of one session are handled in arrival order.
func (svc *Service) ServeSession(ctx context.Context, connID string, wire model.Wire) {
	metrics.Connections.Inc()
	svc.logger.Debug().Str("connID", connID).Msg("session started")
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-wire.RX:
			ev.SRC = connID
			svc.Dispatch(ev, wire)
		}
	}
}

// CloseSession removes the connection from its room.
func (svc *Service) CloseSession(_ context.Context, connID string) error {
	metrics.Connections.Dec()
	if roomID, ok := svc.sw.Disconnect(connID); ok {
		svc.rooms.Release(roomID)
	}
	svc.logger.Debug().Str("connID", connID).Msg("session closed")
	return nil
}

// Dispatch handles a single validated event sent by ev.SRC.
func (svc *Service) Dispatch(ev model.Event, wire model.Wire) {
	metrics.EventsDispatched.WithLabelValues(ev.Type).Inc()
	svc.logger.Trace().
		Str("type", ev.Type).
		Str("roomID", ev.RoomID).
		Str("connID", ev.SRC).
		Msg("dispatching event")

	if ev.Type == model.EventJoin {
		svc.join(ev, wire)
		return
	}

	room, ok := svc.rooms.Lookup(ev.RoomID)
	if !ok {
		svc.ignore(ev, reasonRoomUnknown)
		return
	}

	ok = room.Exclusive(func() {
		switch ev.Type {
		case model.EventEnqueue:
			queue, err := room.Enqueue(ev.VideoID)
			if err != nil {
				svc.ignore(ev, reasonRoomUnknown)
				return
			}
			svc.sw.Broadcast(ev.RoomID, model.QueueUpdated(queue))
		case model.EventPlay:
			svc.sw.Broadcast(ev.RoomID, model.Message{Type: model.MessagePlay})
		case model.EventPause:
			svc.sw.Broadcast(ev.RoomID, model.Message{Type: model.MessagePause})
		case model.EventSeek:
			svc.sw.Broadcast(ev.RoomID, model.Seek(*ev.Time))
		case model.EventAdvance:
			current, queue, err := room.Advance()
			switch {
			case errors.Is(err, memory.ErrNothingToAdvance):
				svc.ignore(ev, reasonNothingToAdvance)
				return
			case err != nil:
				svc.ignore(ev, reasonRoomUnknown)
				return
			}
			svc.sw.Broadcast(ev.RoomID, model.PlayNext(current))
			svc.sw.Broadcast(ev.RoomID, model.QueueUpdated(queue))
		}
	})
	if !ok {
		// evicted after lookup
		svc.ignore(ev, reasonRoomUnknown)
	}
}

func (svc *Service) join(ev model.Event, wire model.Wire) {
	room := svc.rooms.Retain(ev.RoomID)

	var (
		prev     string
		rejoined bool
	)
	// a retained room is never evicted, so Exclusive always runs here
	room.Exclusive(func() {
		prev, rejoined = svc.sw.Join(ev.RoomID, ev.SRC, wire)
		svc.sw.Send(ev.SRC, model.QueueLoaded(room.Snapshot()))
	})
	if rejoined {
		svc.rooms.Release(prev)
	}

	svc.logger.Debug().
		Str("roomID", ev.RoomID).
		Str("connID", ev.SRC).
		Msg("joined room")
}

func (svc *Service) ignore(ev model.Event, reason string) {
	metrics.EventsIgnored.WithLabelValues(ev.Type, reason).Inc()
	if e := svc.logger.Trace(); e.Enabled() {
		e.Str("reason", reason).Str("event", spew.Sdump(ev)).Msg("event ignored")
	}
}

// RoomView returns the current state of a room.
func (svc *Service) RoomView(roomID string) (*model.RoomView, error) {
	room, ok := svc.rooms.Lookup(roomID)
	if !ok {
		return nil, errors.Join(ErrGet, memory.ErrRoomNotFound)
	}
	current, _ := room.Current()
	return &model.RoomView{
		ID:      roomID,
		Queue:   room.Snapshot(),
		Current: current,
		Members: svc.sw.Members(roomID),
	}, nil
}
