/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webhook

import (
	"context"
	"sync"
)

// NewMockWebhookNotifier returns mock webhook notifier implementation.
func NewMockWebhookNotifier() *Notifier {
	return &Notifier{}
}

// Message is a notification captured by the mock notifier.
type Message struct {
	Topic   string
	Payload []byte
}

// Notifier is mock implementation of webhook notifier.
type Notifier struct {
	NotifyFunc func(topic string, message []byte) error

	mu       sync.Mutex
	messages []Message
}

// Notify is mock implementation of webhook notifier Notify().
func (n *Notifier) Notify(_ context.Context, topic string, message []byte) error {
	n.mu.Lock()
	n.messages = append(n.messages, Message{Topic: topic, Payload: message})
	n.mu.Unlock()

	if n.NotifyFunc != nil {
		return n.NotifyFunc(topic, message)
	}

	return nil
}

// Messages returns the notifications received so far.
func (n *Notifier) Messages() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]Message(nil), n.messages...)
}
