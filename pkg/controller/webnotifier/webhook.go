/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webnotifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const defaultWebhookRetries = 3

// HTTPOption configures the webhook dispatcher.
type HTTPOption func(n *HTTPNotifier)

// WithHTTPClient sets the client webhooks are posted with.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(n *HTTPNotifier) {
		n.client = client
	}
}

// WithWebhookRetries sets how often a failing webhook is retried.
func WithWebhookRetries(retries uint64) HTTPOption {
	return func(n *HTTPNotifier) {
		n.retries = retries
	}
}

// HTTPNotifier is a webhook dispatcher capable of notifying multiple subscribers via HTTP.
type HTTPNotifier struct {
	urls    []string
	client  *http.Client
	retries uint64
}

// NewHTTPNotifier returns a new instance of an HTTPNotifier.
func NewHTTPNotifier(webhookURLs []string, opts ...HTTPOption) *HTTPNotifier {
	n := &HTTPNotifier{urls: webhookURLs, client: http.DefaultClient, retries: defaultWebhookRetries}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Notify posts the given message to all of the urls.
// Topic is appended to the end of the webhook (subscriber) URL. E.g. localhost:8080/topic
func (n *HTTPNotifier) Notify(ctx context.Context, topic string, message []byte) error {
	if topic == "" {
		return errors.New(emptyTopicErrMsg)
	}

	if len(message) == 0 {
		return errors.New(emptyMessageErrMsg)
	}

	topicMsg, err := PrepareTopicMessage(topic, message)
	if err != nil {
		return fmt.Errorf(failedToCreateErrMsg, err)
	}

	var allErrs error

	for _, webhookURL := range n.urls {
		allErrs = appendError(allErrs, n.notifyWH(ctx, webhookURL+"/"+topic, topicMsg))
	}

	return allErrs
}

func (n *HTTPNotifier) notifyWH(ctx context.Context, destination string, message []byte) error {
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), n.retries), ctx)

	return backoff.RetryNotify(func() error {
		return n.post(ctx, destination, message)
	}, b, func(err error, wait time.Duration) {
		logger.Debugf("webhook %s failed, retrying in %s: %v", destination, wait, err)
	})
}

func (n *HTTPNotifier) post(parent context.Context, destination string, message []byte) error {
	ctx, cancel := context.WithTimeout(parent, notificationSendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination, bytes.NewBuffer(message))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create new http post request for %s: %w", destination, err))
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post notification to %s: %w", destination, err)
	}

	defer closeResponse(resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		logger.Debugf("notification sent to %s", destination)

		return nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("notification was sent to %s, but %s was received", destination, resp.Status)
	default:
		return backoff.Permanent(
			fmt.Errorf("notification was sent to %s, but %s was received", destination, resp.Status))
	}
}

func closeResponse(c io.Closer) {
	err := c.Close()
	if err != nil {
		logger.Errorf("Failed to close response body")
	}
}
