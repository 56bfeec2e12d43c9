package messages

import (
	"encoding/json"

	"digdug/server/game"
)

// MessageType defines the type of message being sent
type MessageType string

const (
	MessageTypeJoin  MessageType = "join"
	MessageTypeKey   MessageType = "key"
	MessageTypeInfo  MessageType = "info"
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

// Error codes sent back to clients
const (
	CodeBadMessage     = "BAD_MESSAGE"
	CodeUnknownType    = "UNKNOWN_MESSAGE_TYPE"
	CodeInvalidKey     = "INVALID_KEY"
	CodeNotPlaying     = "NOT_PLAYING"
	CodeAlreadyJoined  = "ALREADY_JOINED"
	CodeNameRequired   = "NAME_REQUIRED"
	CodeServerShutdown = "SERVER_SHUTDOWN"
	CodeMatchFailed    = "MATCH_FAILED"
)

// BaseMessage is the envelope of every outbound message
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// InboundMessage is the envelope of every inbound message; the payload is
// decoded once the type is known
type InboundMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JoinMessage asks to play, or to watch on the viewer endpoint
type JoinMessage struct {
	Name string `json:"name"`
}

// KeyMessage carries one command for the next tick
type KeyMessage struct {
	Key string `json:"key"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewInfo wraps a level description
func NewInfo(info *game.Info) BaseMessage {
	return BaseMessage{Type: MessageTypeInfo, Payload: info}
}

// NewState wraps a tick snapshot
func NewState(state *game.State) BaseMessage {
	return BaseMessage{Type: MessageTypeState, Payload: state}
}

// NewError builds an error response
func NewError(code, message string) BaseMessage {
	return BaseMessage{
		Type:    MessageTypeError,
		Payload: ErrorMessage{Code: code, Message: message},
	}
}
