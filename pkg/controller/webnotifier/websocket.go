/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webnotifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"nhooyr.io/websocket"

	"github.com/hyperledger/aries-auditproof-go/pkg/controller/command"
	"github.com/hyperledger/aries-auditproof-go/pkg/controller/rest"
)

const (
	// TopicQueryParam restricts a websocket subscription to the listed topics (repeated or comma separated).
	TopicQueryParam = "topic"
	// VerifiedQueryParam restricts a websocket subscription to audit records with the given verdict.
	VerifiedQueryParam = "verified"
)

// WSNotifier streams audit notifications to the websocket clients subscribed to them.
type WSNotifier struct {
	subs     []*subscriber
	subsLock sync.RWMutex
	handlers []rest.Handler
}

// subscriber is a websocket client together with the notifications it asked for on connect.
type subscriber struct {
	conn *websocket.Conn
	// empty accepts every topic
	topics map[string]struct{}
	// nil accepts any verdict
	verified *bool
}

// verdict is the part of an audit notification the verdict filter reads.
type verdict struct {
	Verified *bool `json:"verified"`
}

// NewWSNotifier returns a WSNotifier accepting subscriptions on path.
func NewWSNotifier(path string) *WSNotifier {
	n := &WSNotifier{}

	n.handlers = []rest.Handler{
		rest.NewHandler(path, http.MethodGet, n.subscribe),
	}

	return n
}

func newSubscriber(query url.Values) (*subscriber, error) {
	s := &subscriber{topics: map[string]struct{}{}}

	for _, value := range query[TopicQueryParam] {
		for _, topic := range strings.Split(value, ",") {
			if topic = strings.TrimSpace(topic); topic != "" {
				s.topics[topic] = struct{}{}
			}
		}
	}

	if v := query.Get(VerifiedQueryParam); v != "" {
		verified, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s filter: %w", VerifiedQueryParam, err)
		}

		s.verified = &verified
	}

	return s, nil
}

func (s *subscriber) accepts(topic string, v verdict) bool {
	if len(s.topics) > 0 {
		if _, ok := s.topics[topic]; !ok {
			return false
		}
	}

	if s.verified == nil {
		return true
	}

	return v.Verified != nil && *v.Verified == *s.verified
}

// Notify sends message to the subscribers whose topic and verdict filters accept it.
func (n *WSNotifier) Notify(ctx context.Context, topic string, message []byte) error {
	if topic == "" {
		return errors.New(emptyTopicErrMsg)
	}

	if len(message) == 0 {
		return errors.New(emptyMessageErrMsg)
	}

	var v verdict

	// messages that are not audit records only reach subscribers without a verdict filter
	if err := json.Unmarshal(message, &v); err != nil {
		v = verdict{}
	}

	n.subsLock.RLock()
	subs := make([]*subscriber, 0, len(n.subs))

	for _, s := range n.subs {
		if s.accepts(topic, v) {
			subs = append(subs, s)
		}
	}
	n.subsLock.RUnlock()

	if len(subs) == 0 {
		return nil
	}

	topicMsg, err := PrepareTopicMessage(topic, message)
	if err != nil {
		return fmt.Errorf(failedToCreateErrMsg, err)
	}

	var allErrs error

	for _, s := range subs {
		allErrs = appendError(allErrs, send(ctx, s.conn, topicMsg))
	}

	return allErrs
}

func send(parent context.Context, conn *websocket.Conn, message []byte) error {
	ctx, cancel := context.WithTimeout(parent, notificationSendTimeout)
	defer cancel()

	return conn.Write(ctx, websocket.MessageText, message)
}

func (n *WSNotifier) subscribe(w http.ResponseWriter, r *http.Request) {
	s, err := newSubscriber(r.URL.Query())
	if err != nil {
		rest.SendHTTPStatusError(w, http.StatusBadRequest, command.UnknownStatus, err)

		return
	}

	s.conn, err = websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		logger.Infof("failed to upgrade the audit notification connection : %v", err)

		return
	}

	n.subsLock.Lock()
	n.subs = append(n.subs, s)
	n.subsLock.Unlock()

	logger.Debugf("audit notification subscriber connected topics=%d verdictFilter=%t", len(s.topics), s.verified != nil)

	n.watch(context.Background(), s)
}

// watch blocks until the subscriber goes away. Subscribers are not expected to send anything.
func (n *WSNotifier) watch(ctx context.Context, s *subscriber) {
	_, _, err := s.conn.Reader(ctx)
	if err != nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		logger.Infof("reading from audit notification subscriber failed: %v", err)
	}

	if err = s.conn.Close(websocket.StatusPolicyViolation, "unexpected message"); err != nil {
		logger.Debugf("closing audit notification subscriber failed: %v", err)
	}

	n.unsubscribe(s)
}

func (n *WSNotifier) unsubscribe(s *subscriber) {
	n.subsLock.Lock()
	defer n.subsLock.Unlock()

	for i, sub := range n.subs {
		if sub == s {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)

			break
		}
	}

	logger.Debugf("audit notification subscriber dropped")
}

// Subscribers returns the number of connected websocket subscribers.
func (n *WSNotifier) Subscribers() int {
	n.subsLock.RLock()
	defer n.subsLock.RUnlock()

	return len(n.subs)
}

// GetRESTHandlers returns the subscription endpoint.
func (n *WSNotifier) GetRESTHandlers() []rest.Handler {
	return n.handlers
}
