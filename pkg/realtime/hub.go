// Package realtime provides the WebSocket publish/subscribe hub used to push
// new-support events to viewers of a case, built on gorilla/websocket.
//
// Clients connect to /ws and send control frames to enter or leave the topic
// for a case:
//
//	{"action": "join",  "caseId": "66f2..."}
//	{"action": "leave", "caseId": "66f2..."}
//
// The support service publishes one event kind to a topic:
//
//	{"event": "new_support", "data": {...}}
//
// Delivery is best-effort: subscribers connected at publish time receive the
// event once; nothing is replayed to late joiners.
package realtime

import (
	"encoding/json"

	"chungtay/pkg/logger"
	"chungtay/pkg/metrics"
)

// Event is the wire envelope published to a topic.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// command is a join/leave request from a connected client.
type command struct {
	client *Client
	topic  string
	join   bool
}

type publication struct {
	topic   string
	payload []byte
}

// Hub maintains all connections and the topic-subscription table. All state
// is owned by the Run loop; there is no locking.
type Hub struct {
	clients map[*Client]map[string]struct{} // client → joined topics
	rooms   map[string]map[*Client]struct{} // topic → members

	register   chan *Client
	unregister chan *Client
	commands   chan command
	publish    chan publication
	done       chan struct{}
}

// NewHub creates a Hub. Call hub.Run() in a goroutine at startup.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]map[string]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan command, 64),
		publish:    make(chan publication, 256),
		done:       make(chan struct{}),
	}
}

// Publish sends an event to every client currently subscribed to topic.
// Marshal failures are logged and dropped; publication never fails the caller.
func (h *Hub) Publish(topic, event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		logger.Error("realtime: marshal event", "event", event, "error", err)
		return
	}

	select {
	case h.publish <- publication{topic: topic, payload: payload}:
	case <-h.done:
	}
}

// Stop terminates the Run loop and disconnects all clients.
func (h *Hub) Stop() {
	close(h.done)
}

// Run is the hub event loop. Must run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = make(map[string]struct{})
			metrics.RealtimeClients.Set(float64(len(h.clients)))

		case client := <-h.unregister:
			h.drop(client)

		case cmd := <-h.commands:
			if cmd.join {
				h.join(cmd.client, cmd.topic)
			} else {
				h.leave(cmd.client, cmd.topic)
			}

		case pub := <-h.publish:
			for client := range h.rooms[pub.topic] {
				select {
				case client.send <- pub.payload:
				default:
					// Slow consumer: drop the connection, not the loop.
					h.drop(client)
				}
			}

		case <-h.done:
			for client := range h.clients {
				h.drop(client)
			}
			return
		}
	}
}

func (h *Hub) join(c *Client, topic string) {
	topics, ok := h.clients[c]
	if !ok || topic == "" {
		return
	}
	topics[topic] = struct{}{}

	room := h.rooms[topic]
	if room == nil {
		room = make(map[*Client]struct{})
		h.rooms[topic] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) leave(c *Client, topic string) {
	if topics, ok := h.clients[c]; ok {
		delete(topics, topic)
	}
	if room, ok := h.rooms[topic]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, topic)
		}
	}
}

func (h *Hub) drop(c *Client) {
	topics, ok := h.clients[c]
	if !ok {
		return
	}
	for topic := range topics {
		h.leave(c, topic)
	}
	delete(h.clients, c)
	close(c.send)
	metrics.RealtimeClients.Set(float64(len(h.clients)))
}
