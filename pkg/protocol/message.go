// Package protocol defines the WebSocket message types exchanged between a
// voice client and voxlined. Binary frames carry raw audio chunks; text
// frames carry the JSON messages defined here.
package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// MessageType identifies the type of a text frame.
type MessageType string

const (
	// Client → Server messages
	TypeAudioEnd MessageType = "audio_end" // End of utterance, process the buffer
	TypeReset    MessageType = "reset"     // Clear conversation state

	// Server → Client messages
	TypeStatus        MessageType = "status"         // Session status change
	TypeAudioResponse MessageType = "audio_response" // Synthesized reply audio
	TypeError         MessageType = "error"          // Turn failed, no audio produced
)

// Status values carried by TypeStatus messages.
const (
	StatusProcessing    = "processing"
	StatusReady         = "ready"
	StatusResetComplete = "reset_complete"
)

// Control is a client → server text frame.
type Control struct {
	Type MessageType `json:"type"`
}

// ParseControl parses a client control frame.
// Unknown or malformed types are rejected.
func ParseControl(data []byte) (*Control, error) {
	var c Control
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse control message: %w", err)
	}
	switch c.Type {
	case TypeAudioEnd, TypeReset:
		return &c, nil
	default:
		return nil, fmt.Errorf("unknown control type: %q", c.Type)
	}
}

// Event is a server → client text frame. Exactly one of the optional
// fields is populated depending on Type.
type Event struct {
	Type    MessageType `json:"type"`
	Status  string      `json:"status,omitempty"`  // TypeStatus
	Audio   string      `json:"audio,omitempty"`   // TypeAudioResponse, base64
	Format  string      `json:"format,omitempty"`  // TypeAudioResponse
	Message string      `json:"message,omitempty"` // TypeError
}

// NewStatusEvent creates a status event.
func NewStatusEvent(status string) Event {
	return Event{Type: TypeStatus, Status: status}
}

// NewAudioEvent creates an audio response event. The audio bytes are
// base64-encoded for the JSON frame.
func NewAudioEvent(audio []byte, format string) Event {
	return Event{
		Type:   TypeAudioResponse,
		Audio:  base64.StdEncoding.EncodeToString(audio),
		Format: format,
	}
}

// NewErrorEvent creates an error event.
func NewErrorEvent(message string) Event {
	return Event{Type: TypeError, Message: message}
}

// Bytes returns the JSON-encoded event.
func (e Event) Bytes() ([]byte, error) {
	return json.Marshal(e)
}

// ParseEvent parses a server event frame.
func ParseEvent(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse event: %w", err)
	}
	switch e.Type {
	case TypeStatus, TypeAudioResponse, TypeError:
		return &e, nil
	default:
		return nil, fmt.Errorf("unknown event type: %q", e.Type)
	}
}

// AudioBytes decodes the base64 audio payload of a TypeAudioResponse event.
func (e Event) AudioBytes() ([]byte, error) {
	if e.Type != TypeAudioResponse {
		return nil, fmt.Errorf("event %q carries no audio", e.Type)
	}
	return base64.StdEncoding.DecodeString(e.Audio)
}
