/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package httpbinding reads Indy ledger artifacts from an HTTP(s) ledger proxy.
package httpbinding

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/pkg/errors"

	ledgerapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/ledger"
)

var logger = log.New("aries-framework/ledger/httpbinding")

const defaultRetries = 3

type authTokenProvider interface {
	AuthToken() (string, error)
}

// Ledger via HTTP(s) endpoint.
type Ledger struct {
	endpointURL       string
	client            *http.Client
	retries           uint64
	authToken         string
	authTokenProvider authTokenProvider
}

// New creates a new HTTP ledger reading from endpointURL.
func New(endpointURL string, opts ...Option) (*Ledger, error) {
	l := &Ledger{client: &http.Client{}, retries: defaultRetries}

	for _, opt := range opts {
		opt(l)
	}

	// Validate host
	_, err := url.ParseRequestURI(endpointURL)
	if err != nil {
		return nil, errors.Wrap(err, "base URL invalid")
	}

	l.endpointURL = endpointURL

	return l, nil
}

// Open opens a ledger session. HTTP sessions hold no connection state.
func (l *Ledger) Open(ctx context.Context) (ledgerapi.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &session{ledger: l}, nil
}

// Option configures the HTTP ledger.
type Option func(opts *Ledger)

// WithTimeout option is for definition of HTTP(s) timeout value of ledger reads.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Ledger) {
		opts.client.Timeout = timeout
	}
}

// WithHTTPClient option is for custom http client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(opts *Ledger) {
		opts.client = httpClient
	}
}

// WithRetries sets how often a transient read failure is retried.
func WithRetries(retries uint64) Option {
	return func(opts *Ledger) {
		opts.retries = retries
	}
}

// WithAuthToken add auth token for ledger reads.
func WithAuthToken(authToken string) Option {
	return func(opts *Ledger) {
		opts.authToken = "Bearer " + authToken
	}
}

// WithAuthTokenProvider add auth token provider.
func WithAuthTokenProvider(p authTokenProvider) Option {
	return func(opts *Ledger) {
		opts.authTokenProvider = p
	}
}

func closeResponseBody(respBody io.Closer) {
	e := respBody.Close()
	if e != nil {
		logger.Errorf("Failed to close response body: %v", e)
	}
}
