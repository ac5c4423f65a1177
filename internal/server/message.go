package server

import (
	"time"

	"github.com/coder/quartz"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MessageType names a websocket message
type MessageType string

const (
	// Client to server
	MessageTypeStartRound  MessageType = "start_round"
	MessageTypeAct         MessageType = "act"
	MessageTypeToggleBlind MessageType = "toggle_blind"
	MessageTypeSetBoot     MessageType = "set_boot"
	MessageTypeState       MessageType = "state"

	// Server to client
	MessageTypeRound   MessageType = "round"
	MessageTypeOutcome MessageType = "outcome"
	MessageTypeBlind   MessageType = "blind"
	MessageTypeBoot    MessageType = "boot"
	MessageTypeError   MessageType = "error"
)

func (mt MessageType) String() string {
	return string(mt)
}

// Error codes beyond the game's own
const (
	CodeInvalidMessage     = "invalid_message"
	CodeUnknownMessageType = "unknown_message_type"
)

// Message is the envelope for every frame in both directions
type Message struct {
	Type      MessageType         `json:"type"`
	Data      jsoniter.RawMessage `json:"data,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// NewMessage wraps data in an envelope stamped by clock
func NewMessage(clock quartz.Clock, messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: clock.Now("server", "message"),
	}, nil
}

// Decode unmarshals the payload into v. An absent payload leaves v untouched.
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Client to server payloads

type ActData struct {
	Action string `json:"action"`
}

type SetBootData struct {
	Amount int `json:"amount"`
}

// Server to client payloads

type BlindData struct {
	IsBlind bool `json:"isBlind"`
}

type BootData struct {
	Amount   int  `json:"amount"`
	Accepted bool `json:"accepted"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
