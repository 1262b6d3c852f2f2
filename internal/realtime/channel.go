package realtime

import (
	"encoding/json"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

// Message types used on the wire. Anything the channel cannot parse is
// wrapped as TypeRaw rather than dropped, so consumers always receive a
// well-typed envelope.
const (
	TypeDeliveryUpdate = "delivery.update"
	TypeRaw            = "raw"

	typeSubscribe = "subscribe"
)

// Envelope is the single message shape used in both directions:
// {type, deliveryId, payload}.
type Envelope struct {
	Type       string          `json:"type"`
	DeliveryID string          `json:"deliveryId,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Status reports connection state changes to the consumer. Errors never
// propagate any other way; the channel does not interrupt its host view.
type Status struct {
	Connected bool
	Reason    string
}

// Event is what the consumer receives: either an inbound message or a
// status change, never both. Events arrive in transport order.
type Event struct {
	Message *Envelope
	Status  *Status
}

// State is the channel lifecycle state.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
	StateFailed
)

// Conn abstracts the websocket connection so tests can drive the channel
// with a scripted transport. *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

// Dialer opens a transport connection to the given endpoint.
type Dialer func(url string) (Conn, error)

func websocketDialer(url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Channel manages a single push-message connection for one subscribed
// delivery. There is no automatic reconnection; after a failure the
// caller may call Connect again. Messages sent while disconnected are
// lost (at-most-once, best-effort).
type Channel struct {
	url  string
	dial Dialer

	mu     sync.Mutex
	state  State
	conn   Conn
	closed bool

	events chan Event
}

// New creates a Channel for the given websocket endpoint. An empty url is
// allowed; Connect then reports a missing-endpoint status instead of
// dialing.
func New(url string) *Channel {
	return NewWithDialer(url, websocketDialer)
}

// NewWithDialer creates a Channel with a custom transport dialer.
func NewWithDialer(url string, dial Dialer) *Channel {
	return &Channel{
		url:    url,
		dial:   dial,
		state:  StateIdle,
		events: make(chan Event, 32),
	}
}

// State returns the current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect opens the transport in the background. It is a no-op when no
// endpoint is configured (a missing-endpoint status is emitted instead),
// when a connection attempt is already underway or open, and after Close.
func (c *Channel) Connect() {
	c.mu.Lock()
	if c.closed || c.state == StateConnecting || c.state == StateOpen {
		c.mu.Unlock()
		return
	}
	if c.url == "" {
		c.mu.Unlock()
		c.emit(Event{Status: &Status{Connected: false, Reason: "missing endpoint"}})
		return
	}
	c.state = StateConnecting
	c.mu.Unlock()

	go c.dialAndRead()
}

func (c *Channel) dialAndRead() {
	conn, err := c.dial(c.url)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		c.state = StateFailed
		c.mu.Unlock()
		c.emit(Event{Status: &Status{Connected: false, Reason: err.Error()}})
		return
	}
	c.conn = conn
	c.state = StateOpen
	c.mu.Unlock()

	c.emit(Event{Status: &Status{Connected: true}})
	c.readLoop(conn)
}

// readLoop forwards inbound frames until the transport errors or closes.
// Frames reach the consumer in the order the transport delivers them.
func (c *Channel) readLoop(conn Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			wasClosed := c.closed
			if !wasClosed {
				c.state = StateFailed
				c.conn = nil
			}
			c.mu.Unlock()

			if !wasClosed {
				c.emit(Event{Status: &Status{Connected: false, Reason: err.Error()}})
			}
			return
		}
		c.emit(Event{Message: parseFrame(data)})
	}
}

// parseFrame decodes an inbound frame. Malformed frames become a raw
// envelope carrying the original bytes.
func parseFrame(data []byte) *Envelope {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
		return &Envelope{Type: TypeRaw, Payload: json.RawMessage(data)}
	}
	return &env
}

// Subscribe sends the subscribe directive for the given delivery id. It
// is a silent no-op unless the channel is open; no acknowledgment is
// awaited.
func (c *Channel) Subscribe(deliveryID string) {
	c.mu.Lock()
	conn := c.conn
	open := c.state == StateOpen
	c.mu.Unlock()

	if !open || conn == nil {
		return
	}
	_ = conn.WriteJSON(Envelope{Type: typeSubscribe, DeliveryID: deliveryID})
}

// Close tears down the transport. Safe to call multiple times; every
// operation on a closed channel is a no-op. The event stream is closed
// so pending WaitForEvent commands return instead of leaking.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.state = StateClosed
	conn := c.conn
	c.conn = nil
	close(c.events)
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// emit delivers an event without blocking the read loop. Events are
// dropped when the consumer is too far behind; delivery is best-effort.
func (c *Channel) emit(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.events <- ev:
	default:
	}
}

// EventMsg wraps a channel event for the Bubble Tea runtime.
type EventMsg struct {
	Event Event
}

// WaitForEvent returns a command that waits for the next channel event.
// Callers re-issue it after handling each EventMsg to keep listening.
func (c *Channel) WaitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-c.events
		if !ok {
			return nil
		}
		return EventMsg{Event: ev}
	}
}
