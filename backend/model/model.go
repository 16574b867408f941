package model

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Inbound event types sent by clients.
const (
	EventJoin    = "join"
	EventEnqueue = "enqueue"
	EventPlay    = "play"
	EventPause   = "pause"
	EventSeek    = "seek"
	EventAdvance = "advance"
)

// Outbound message types sent by server.
const (
	MessageQueueLoaded  = "queue-loaded"
	MessageQueueUpdated = "queue-updated"
	MessagePlay         = "play"
	MessagePause        = "pause"
	MessageSeek         = "seek"
	MessagePlayNext     = "play-next"
)

var (
	ErrMalformedEvent = errors.New("malformed event")

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Event is a client-originated control event. Every event carries the room it targets.
type Event struct {
	Type    string   `json:"type" validate:"required,oneof=join enqueue play pause seek advance"`
	RoomID  string   `json:"room_id" validate:"required"`
	VideoID string   `json:"video_id,omitempty" validate:"required_if=Type enqueue"`
	Time    *float64 `json:"time,omitempty" validate:"required_if=Type seek"`

	SRC string `json:"-"` // server assigns this based on websocket session
}

// Validate rejects events that cannot be dispatched.
func (ev *Event) Validate() error {
	if err := validate.Struct(ev); err != nil {
		return errors.Join(ErrMalformedEvent, err)
	}
	return nil
}

// Message is a server-originated event delivered to one or more connections.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

func QueueLoaded(queue []string) Message {
	return Message{Type: MessageQueueLoaded, Payload: queue}
}

func QueueUpdated(queue []string) Message {
	return Message{Type: MessageQueueUpdated, Payload: queue}
}

func PlayNext(videoID string) Message {
	return Message{Type: MessagePlayNext, Payload: videoID}
}

func Seek(t float64) Message {
	return Message{Type: MessageSeek, Payload: t}
}

// RoomView is a read-only representation of a room served by the API.
type RoomView struct {
	ID      string   `json:"room_id"`
	Queue   []string `json:"queue"`
	Current string   `json:"current,omitempty"`
	Members []string `json:"members"`
}

// Wire connects a websocket session with the relay.
// RX carries validated inbound events, TX carries outbound messages.
type Wire struct {
	RX chan Event
	TX chan Message
}

func NewWire(sendBuffer int) Wire {
	return Wire{
		RX: make(chan Event),
		TX: make(chan Message, sendBuffer),
	}
}
