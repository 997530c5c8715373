package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

// newTestClient builds a client without a live websocket connection; tests
// read its send channel directly.
func newTestClient(h *Hub, buffer int) *Client {
	c := &Client{hub: h, send: make(chan []byte, buffer)}
	h.register <- c
	return c
}

// settle lets the hub loop drain the buffered command channel before the
// test publishes.
func settle() {
	time.Sleep(50 * time.Millisecond)
}

func recv(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func expectNone(t *testing.T, ch chan []byte) {
	t.Helper()
	select {
	case msg := <-ch:
		t.Fatalf("unexpected event: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishReachesJoinedClient(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	c := newTestClient(h, 4)
	h.commands <- command{client: c, topic: "case-1", join: true}
	settle()

	h.Publish("case-1", "new_support", map[string]interface{}{"amount": 50000})

	var ev Event
	if err := json.Unmarshal(recv(t, c.send), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Event != "new_support" {
		t.Errorf("event = %q", ev.Event)
	}
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	joined := newTestClient(h, 4)
	other := newTestClient(h, 4)
	h.commands <- command{client: joined, topic: "case-1", join: true}
	h.commands <- command{client: other, topic: "case-2", join: true}
	settle()

	h.Publish("case-1", "new_support", nil)

	recv(t, joined.send)
	expectNone(t, other.send)
}

func TestLeaveStopsDelivery(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	c := newTestClient(h, 4)
	h.commands <- command{client: c, topic: "case-1", join: true}
	h.commands <- command{client: c, topic: "case-1"}
	settle()

	h.Publish("case-1", "new_support", nil)

	expectNone(t, c.send)
}

func TestSlowConsumerDropped(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	c := newTestClient(h, 1)
	h.commands <- command{client: c, topic: "case-1", join: true}
	settle()

	// First publication fills the buffer; the second finds it full and the
	// hub drops the client instead of blocking.
	h.Publish("case-1", "new_support", map[string]int{"n": 1})
	settle()
	h.Publish("case-1", "new_support", map[string]int{"n": 2})
	settle()

	recv(t, c.send)
	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected send channel closed after drop")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestStopDisconnectsClients(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := newTestClient(h, 4)
	h.Stop()

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected send channel closed after stop")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}
