// Package brokertest provides an in-process broker.Subscriber for tests.
package brokertest

import (
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Subscriber records subscriptions and delivers published payloads to them
// synchronously.
type Subscriber struct {
	// SubscribeErr, if set, fails every Subscribe call.
	SubscribeErr error

	mu           sync.Mutex
	handlers     map[string]mqtt.MessageHandler
	unsubscribed []string
}

// Subscribe implements broker.Subscriber.
func (s *Subscriber) Subscribe(topic string, _ byte, callback mqtt.MessageHandler) mqtt.Token {
	if s.SubscribeErr != nil {
		return &token{err: s.SubscribeErr}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handlers == nil {
		s.handlers = make(map[string]mqtt.MessageHandler)
	}
	s.handlers[topic] = callback
	return &token{}
}

// Unsubscribe implements broker.Subscriber.
func (s *Subscriber) Unsubscribe(topics ...string) mqtt.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range topics {
		delete(s.handlers, t)
		s.unsubscribed = append(s.unsubscribed, t)
	}
	return &token{}
}

// Subscribed reports whether topic currently has a handler.
func (s *Subscriber) Subscribed(topic string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.handlers[topic]
	return ok
}

// Unsubscribed returns the topics released so far.
func (s *Subscriber) Unsubscribed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.unsubscribed...)
}

// Publish delivers payload to the handler of topic. It returns false when
// nothing is subscribed.
func (s *Subscriber) Publish(topic string, payload []byte) bool {
	s.mu.Lock()
	h, ok := s.handlers[topic]
	s.mu.Unlock()
	if !ok {
		return false
	}
	h(nil, &message{topic: topic, payload: payload})
	return true
}

type token struct {
	err error
}

func (t *token) Wait() bool                     { return true }
func (t *token) WaitTimeout(time.Duration) bool { return true }
func (t *token) Error() error                   { return t.err }

func (t *token) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type message struct {
	topic   string
	payload []byte
}

func (m *message) Duplicate() bool   { return false }
func (m *message) Qos() byte         { return 0 }
func (m *message) Retained() bool    { return false }
func (m *message) Topic() string     { return m.topic }
func (m *message) MessageID() uint16 { return 0 }
func (m *message) Payload() []byte   { return m.payload }
func (m *message) Ack()              {}
