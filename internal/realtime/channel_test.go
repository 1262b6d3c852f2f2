package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeConn is a scripted transport: the test pushes inbound frames and
// inspects outbound writes.
type fakeConn struct {
	frames chan []byte

	mu      sync.Mutex
	writes  []Envelope
	closing sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{frames: make(chan []byte, 8)}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	data, ok := <-c.frames
	if !ok {
		return 0, nil, errors.New("connection reset")
	}
	return 1, data, nil
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	env, ok := v.(Envelope)
	if !ok {
		return errors.New("unexpected write type")
	}
	c.mu.Lock()
	c.writes = append(c.writes, env)
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) Close() error {
	c.closing.Do(func() { close(c.frames) })
	return nil
}

func (c *fakeConn) written() []Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Envelope, len(c.writes))
	copy(out, c.writes)
	return out
}

// nextEvent drives the channel the way the UI does and fails the test if
// nothing arrives in time.
func nextEvent(t *testing.T, c *Channel) Event {
	t.Helper()

	done := make(chan Event, 1)
	go func() {
		if msg := c.WaitForEvent()(); msg != nil {
			done <- msg.(EventMsg).Event
		}
		close(done)
	}()

	select {
	case ev, ok := <-done:
		if !ok {
			t.Fatalf("event stream closed while waiting for an event")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for channel event")
		return Event{}
	}
}

func TestConnectWithoutEndpoint(t *testing.T) {
	c := New("")
	t.Cleanup(c.Close)

	c.Connect()

	ev := nextEvent(t, c)
	if ev.Status == nil || ev.Status.Connected {
		t.Fatalf("expected disconnected status, got %+v", ev)
	}
	if ev.Status.Reason != "missing endpoint" {
		t.Errorf("reason = %q, want missing endpoint", ev.Status.Reason)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %d, want idle", c.State())
	}
}

func TestConnectDialFailure(t *testing.T) {
	c := NewWithDialer("ws://example", func(string) (Conn, error) {
		return nil, errors.New("refused")
	})
	t.Cleanup(c.Close)

	c.Connect()

	ev := nextEvent(t, c)
	if ev.Status == nil || ev.Status.Connected {
		t.Fatalf("expected failure status, got %+v", ev)
	}
	if ev.Status.Reason != "refused" {
		t.Errorf("reason = %q, want refused", ev.Status.Reason)
	}
	if c.State() != StateFailed {
		t.Errorf("state = %d, want failed", c.State())
	}
}

func TestConnectAndReceiveInOrder(t *testing.T) {
	conn := newFakeConn()
	c := NewWithDialer("ws://example", func(string) (Conn, error) {
		return conn, nil
	})
	t.Cleanup(c.Close)

	c.Connect()

	ev := nextEvent(t, c)
	if ev.Status == nil || !ev.Status.Connected {
		t.Fatalf("expected connected status first, got %+v", ev)
	}
	if c.State() != StateOpen {
		t.Fatalf("state = %d, want open", c.State())
	}

	conn.frames <- []byte(`{"type":"delivery.update","deliveryId":"d1","payload":{"status":"accepted"}}`)
	conn.frames <- []byte(`{"type":"delivery.update","deliveryId":"d2","payload":{"status":"picked_up"}}`)

	first := nextEvent(t, c)
	if first.Message == nil || first.Message.DeliveryID != "d1" {
		t.Fatalf("expected d1 first, got %+v", first)
	}
	second := nextEvent(t, c)
	if second.Message == nil || second.Message.DeliveryID != "d2" {
		t.Fatalf("expected d2 second, got %+v", second)
	}
}

func TestMalformedFrameBecomesRaw(t *testing.T) {
	conn := newFakeConn()
	c := NewWithDialer("ws://example", func(string) (Conn, error) {
		return conn, nil
	})
	t.Cleanup(c.Close)

	c.Connect()
	nextEvent(t, c) // connected

	conn.frames <- []byte(`{{{ not json`)

	ev := nextEvent(t, c)
	if ev.Message == nil {
		t.Fatalf("expected a message event, got %+v", ev)
	}
	if ev.Message.Type != TypeRaw {
		t.Errorf("type = %q, want raw", ev.Message.Type)
	}
	if string(ev.Message.Payload) != `{{{ not json` {
		t.Errorf("payload must carry the original bytes, got %q", ev.Message.Payload)
	}

	// A frame with no type field is also unparseable by consumers.
	conn.frames <- []byte(`{"payload":{}}`)
	ev = nextEvent(t, c)
	if ev.Message == nil || ev.Message.Type != TypeRaw {
		t.Errorf("typeless frame should surface as raw, got %+v", ev)
	}
}

func TestSubscribeBeforeOpenIsNoOp(t *testing.T) {
	conn := newFakeConn()
	c := NewWithDialer("ws://example", func(string) (Conn, error) {
		return conn, nil
	})
	t.Cleanup(c.Close)

	c.Subscribe("d1")
	if got := conn.written(); len(got) != 0 {
		t.Fatalf("expected no writes before open, got %+v", got)
	}

	c.Connect()
	nextEvent(t, c) // connected

	c.Subscribe("d1")
	writes := conn.written()
	if len(writes) != 1 {
		t.Fatalf("expected 1 write after open, got %d", len(writes))
	}
	if writes[0].Type != "subscribe" || writes[0].DeliveryID != "d1" {
		t.Errorf("unexpected subscribe envelope: %+v", writes[0])
	}
}

func TestReadErrorReportsDisconnect(t *testing.T) {
	conn := newFakeConn()
	c := NewWithDialer("ws://example", func(string) (Conn, error) {
		return conn, nil
	})
	t.Cleanup(c.Close)

	c.Connect()
	nextEvent(t, c) // connected

	conn.Close()

	ev := nextEvent(t, c)
	if ev.Status == nil || ev.Status.Connected {
		t.Fatalf("expected disconnect status, got %+v", ev)
	}
	if c.State() != StateFailed {
		t.Errorf("state = %d, want failed", c.State())
	}

	// Reconnect stays caller-driven from the failed state: another
	// Connect dials again and reports its outcome as a fresh status.
	c.Connect()
	ev = nextEvent(t, c)
	if ev.Status == nil || !ev.Status.Connected {
		t.Fatalf("expected a reconnect status, got %+v", ev)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	conn := newFakeConn()
	c := NewWithDialer("ws://example", func(string) (Conn, error) {
		return conn, nil
	})

	c.Connect()
	nextEvent(t, c) // connected

	c.Close()
	c.Close()

	if c.State() != StateClosed {
		t.Errorf("state = %d, want closed", c.State())
	}

	// A pending wait on a closed channel returns instead of hanging.
	if msg := c.WaitForEvent()(); msg != nil {
		t.Errorf("expected nil msg from closed event stream, got %+v", msg)
	}

	// Operations after close are no-ops.
	c.Connect()
	c.Subscribe("d1")
}

func TestEnvelopeRoundTrip(t *testing.T) {
	data := []byte(`{"type":"delivery.update","deliveryId":"d9","payload":{"status":"in_transit","lastLocation":{"lat":1.5,"lng":2.5}}}`)

	env := parseFrame(data)
	if env.Type != TypeDeliveryUpdate || env.DeliveryID != "d9" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.Status != "in_transit" {
		t.Errorf("status = %q, want in_transit", payload.Status)
	}
}
