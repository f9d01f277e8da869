package session

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/voxline/voxline/pkg/protocol"
)

// inbox sizing. Frames arriving while a turn is in flight queue here for
// the next turn.
const (
	inboxSize  = 256
	eventsSize = 16
)

type inboundKind int

const (
	inboundFrame inboundKind = iota
	inboundControl
)

type inbound struct {
	kind  inboundKind
	frame []byte
	ctrl  protocol.MessageType
}

// Session is the actor owning all state for one connection: the audio
// buffer, the conversation history, and the turn pipeline. All mutation
// happens on the actor goroutine; the transport talks to it only through
// HandleFrame, HandleControl, Events, and Close.
type Session struct {
	// ID identifies the session in logs and metrics.
	ID string

	pipeline *Pipeline
	history  *History

	inbox     chan inbound
	events    chan protocol.Event
	done      chan struct{}
	closeOnce sync.Once

	buffer bytes.Buffer
	logger *slog.Logger
}

// New creates a session and starts its actor goroutine.
func New(id string, pipeline *Pipeline, history *History, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		ID:       id,
		pipeline: pipeline,
		history:  history,
		inbox:    make(chan inbound, inboxSize),
		events:   make(chan protocol.Event, eventsSize),
		done:     make(chan struct{}),
		logger:   logger.With("component", "session", "session_id", id),
	}
	go s.run()
	return s
}

// HandleFrame queues a binary audio frame. Frames arriving while a turn
// is processing accumulate for the next turn. Frames after Close are
// dropped.
func (s *Session) HandleFrame(data []byte) {
	frame := make([]byte, len(data))
	copy(frame, data)
	select {
	case s.inbox <- inbound{kind: inboundFrame, frame: frame}:
	case <-s.done:
	}
}

// HandleControl queues a control message (audio_end or reset).
func (s *Session) HandleControl(ctrl *protocol.Control) {
	select {
	case s.inbox <- inbound{kind: inboundControl, ctrl: ctrl.Type}:
	case <-s.done:
	}
}

// Events returns the outbound event stream. The channel closes when the
// session ends.
func (s *Session) Events() <-chan protocol.Event {
	return s.events
}

// Close tears the session down. An in-flight turn runs to completion but
// its result is discarded. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// run is the actor loop. It owns buffer and history; no other goroutine
// touches them.
func (s *Session) run() {
	defer close(s.events)

	for {
		select {
		case <-s.done:
			s.logger.Info("session closed")
			return
		case m := <-s.inbox:
			switch m.kind {
			case inboundFrame:
				s.buffer.Write(m.frame)
				s.logger.Debug("received audio chunk",
					"bytes", len(m.frame), "total", s.buffer.Len())
			case inboundControl:
				switch m.ctrl {
				case protocol.TypeAudioEnd:
					s.handleAudioEnd()
				case protocol.TypeReset:
					s.handleReset()
				}
			}
		}
	}
}

// handleAudioEnd runs one turn over the accumulated buffer. A turn-end
// with nothing buffered is ignored.
func (s *Session) handleAudioEnd() {
	if s.buffer.Len() == 0 {
		return
	}

	audio := make([]byte, s.buffer.Len())
	copy(audio, s.buffer.Bytes())
	s.buffer.Reset()

	s.logger.Info("processing complete audio", "bytes", len(audio))
	s.emit(protocol.NewStatusEvent(protocol.StatusProcessing))

	result := s.pipeline.Run(context.Background(), audio)

	switch result.Status {
	case TurnAudio:
		s.logger.Info("sending audio response", "bytes", len(result.Audio))
		s.emit(protocol.NewAudioEvent(result.Audio, result.Format))
	case TurnEmpty:
		// Nothing was said. No reply, no error.
	case TurnFailed:
		s.logger.Warn("no audio response generated")
		s.emit(protocol.NewErrorEvent("Failed to process audio"))
	}

	s.emit(protocol.NewStatusEvent(protocol.StatusReady))
}

// handleReset clears the conversation and buffer. An in-flight turn is
// never interrupted because the actor processes one message at a time.
func (s *Session) handleReset() {
	s.history.Clear()
	s.buffer.Reset()
	s.emit(protocol.NewStatusEvent(protocol.StatusResetComplete))
	s.logger.Info("conversation reset")
}

// emit delivers an event unless the session has been torn down. A turn
// finishing after disconnect drops its events here.
func (s *Session) emit(e protocol.Event) {
	select {
	case s.events <- e:
	case <-s.done:
	}
}
