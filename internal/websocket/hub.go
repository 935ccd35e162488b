package websocket

import (
	"fmt"
	"log/slog"
	"sync"
)

// Message is a change notification published on a single topic. It mirrors
// the subscribe-by-table-and-filter boundary: the topic names a table and a
// filter, the entity/action pair says what happened. Notifications carry no
// row data; consumers react by re-fetching.
type Message struct {
	Type   string `json:"type"`
	Topic  string `json:"topic"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     int64  `json:"id,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(topic, entity, action string, id int64) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Topic:  topic,
		Entity: entity,
		Action: action,
		ID:     id,
	}
}

// Topic builds a table-and-filter topic string, e.g.
// Topic("menu_items", "section_id", 7) -> "menu_items:section_id=7".
func Topic(table, field string, value any) string {
	return fmt.Sprintf("%s:%s=%v", table, field, value)
}

// ControlTopic is the per-restaurant command channel for display surfaces.
func ControlTopic(slug string) string {
	return Topic("display", "slug", slug)
}

const subscriptionBuffer = 16

// Subscription is a registered consumer of one or more topics. Messages
// arrive on C. Close is idempotent; C is closed exactly once.
type Subscription struct {
	C      chan Message
	topics map[string]struct{}
	hub    *Hub
	once   sync.Once
}

// Topics returns the topic set the subscription was opened with.
func (s *Subscription) Topics() []string {
	out := make([]string, 0, len(s.topics))
	for t := range s.topics {
		out = append(out, t)
	}
	return out
}

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
		close(s.C)
	})
}

// Hub routes published messages to every subscription watching the message's
// topic. Subscribers are both websocket clients and in-process consumers
// (refresh strategies, kiosk sessions).
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	logger *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscribe opens a subscription covering the given topics.
func (h *Hub) Subscribe(topics ...string) *Subscription {
	sub := &Subscription{
		C:      make(chan Message, subscriptionBuffer),
		topics: make(map[string]struct{}, len(topics)),
		hub:    h,
	}
	for _, t := range topics {
		sub.topics[t] = struct{}{}
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

// Publish delivers msg to every subscription watching msg.Topic.
func (h *Hub) Publish(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if _, ok := sub.topics[msg.Topic]; !ok {
			continue
		}
		select {
		case sub.C <- msg:
		default:
			// Subscriber buffer full: drop rather than block the publisher.
			// A dropped notification costs one refresh, not correctness.
			h.logger.Warn("dropping notification", "topic", msg.Topic, "type", msg.Type)
		}
	}
}

// SubscriberCount returns the number of open subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
