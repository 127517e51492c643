// Copyright © 2018 The ELPS authors

// Package messenger is the channel a hop session uses to ship log lines and
// exported values to its host.
package messenger

import "sync"

// Topic classifies messages.
type Topic string

const (
	// Stdout carries human readable log lines such as Sys.print output.
	Stdout Topic = "stdout"
	// Export carries labeled values published by Test.export.
	Export Topic = "export"
	// Stderr carries diagnostics.
	Stderr Topic = "stderr"
)

// Message is one posted message.  Identifier is the export label and is empty
// for log lines.
type Message struct {
	Topic      Topic
	Identifier string
	Data       interface{}
}

// Poster is the only capability a session requires from its messenger.
type Poster interface {
	Post(msg Message)
}

// PosterFunc is a function implementing Poster.
type PosterFunc func(msg Message)

// Post implements Poster.
func (fn PosterFunc) Post(msg Message) {
	fn(msg)
}

// Handler receives messages of the topics it subscribed to.
type Handler func(msg Message)

// Messenger fans posted messages out to the handlers subscribed to their
// topic, in subscription order.  A Messenger may be shared by sessions
// running on different goroutines.
type Messenger struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Topic][]subscription
}

type subscription struct {
	id int
	fn Handler
}

// New returns a Messenger without subscribers.
func New() *Messenger {
	return &Messenger{subs: make(map[Topic][]subscription)}
}

// Subscribe registers fn for topic and returns a function cancelling the
// subscription.
func (m *Messenger) Subscribe(topic Topic, fn Handler) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.subs[topic] = append(m.subs[topic], subscription{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		subs := m.subs[topic]
		for i := range subs {
			if subs[i].id == id {
				m.subs[topic] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Post implements Poster.
func (m *Messenger) Post(msg Message) {
	m.mu.RLock()
	subs := m.subs[msg.Topic]
	m.mu.RUnlock()
	for _, sub := range subs {
		sub.fn(msg)
	}
}

// Collector is a Poster recording every message, for tests and batch runs.
type Collector struct {
	mu       sync.Mutex
	Messages []Message
}

// Post implements Poster.
func (c *Collector) Post(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Messages = append(c.Messages, msg)
}

// Topic returns the recorded messages of topic t.
func (c *Collector) Topic(t Topic) []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	var msgs []Message
	for _, msg := range c.Messages {
		if msg.Topic == t {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// Exports returns the data of the recorded exports by label.  Later exports
// of a label replace earlier ones.
func (c *Collector) Exports() map[string]interface{} {
	exports := make(map[string]interface{})
	for _, msg := range c.Topic(Export) {
		exports[msg.Identifier] = msg.Data
	}
	return exports
}
