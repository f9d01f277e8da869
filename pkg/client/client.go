// Package client provides a WebSocket client for talking to a voxlined
// server: it streams audio chunks, signals end of utterance, and
// delivers the server's events on a channel.
package client

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/voxline/voxline/pkg/protocol"
)

// Client manages one voice session over WebSocket.
type Client struct {
	url    string
	ws     *websocket.Conn
	wsMu   sync.Mutex
	logger *slog.Logger

	events    chan protocol.Event
	closeOnce sync.Once
	closed    chan struct{}
}

// New creates a client for the given WebSocket URL (ws://host:port/ws).
func New(url string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:    url,
		logger: logger.With("component", "client"),
		events: make(chan protocol.Event, 16),
		closed: make(chan struct{}),
	}
}

// Connect establishes the WebSocket connection and starts the read loop.
func (c *Client) Connect() error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	ws, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("client: dial %s: %w", c.url, err)
	}
	c.ws = ws

	go c.readLoop()
	c.logger.Info("connected", "url", c.url)
	return nil
}

// SendAudio streams one binary audio chunk.
func (c *Client) SendAudio(chunk []byte) error {
	return c.write(websocket.BinaryMessage, chunk)
}

// EndAudio signals the end of the current utterance.
func (c *Client) EndAudio() error {
	return c.sendControl(protocol.TypeAudioEnd)
}

// Reset clears the server-side conversation state.
func (c *Client) Reset() error {
	return c.sendControl(protocol.TypeReset)
}

// Events returns the server event stream. The channel closes when the
// connection ends.
func (c *Client) Events() <-chan protocol.Event {
	return c.events
}

// NextEvent waits for a single event or times out.
func (c *Client) NextEvent(timeout time.Duration) (*protocol.Event, error) {
	select {
	case e, ok := <-c.events:
		if !ok {
			return nil, fmt.Errorf("client: connection closed")
		}
		return &e, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("client: timed out after %s", timeout)
	}
}

// Close terminates the connection.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		if c.ws != nil {
			err = c.ws.Close()
		}
	})
	return err
}

func (c *Client) sendControl(t protocol.MessageType) error {
	data, err := json.Marshal(protocol.Control{Type: t})
	if err != nil {
		return err
	}
	return c.write(websocket.TextMessage, data)
}

func (c *Client) write(messageType int, data []byte) error {
	c.wsMu.Lock()
	defer c.wsMu.Unlock()
	if c.ws == nil {
		return fmt.Errorf("client: not connected")
	}
	return c.ws.WriteMessage(messageType, data)
}

// readLoop parses server events until the connection drops.
func (c *Client) readLoop() {
	defer close(c.events)

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
			default:
				c.logger.Warn("read failed", "error", err)
			}
			return
		}

		event, err := protocol.ParseEvent(data)
		if err != nil {
			c.logger.Warn("unparseable event", "error", err)
			continue
		}

		select {
		case c.events <- *event:
		case <-c.closed:
			return
		}
	}
}
