package memory

import (
	"context"
	"sync"
)

// Message is one published event as recorded by the Publisher.
type Message struct {
	Topic   string
	Payload []byte
}

// Publisher is an in-memory implementation of catalog.EventPublisher.
// It records every published message and is used for development
// wiring and tests.
type Publisher struct {
	mu       sync.Mutex
	messages []Message
}

// New creates a new in-memory publisher
func New() *Publisher {
	return &Publisher{}
}

// Publish records the message
func (p *Publisher) Publish(ctx context.Context, topic string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	buf := make([]byte, len(payload))
	copy(buf, payload)
	p.messages = append(p.messages, Message{Topic: topic, Payload: buf})
	return nil
}

// Messages returns a copy of everything published so far
func (p *Publisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}
