/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package httpbinding delegates presentation verification to a remote verifier service.
package httpbinding

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/pkg/errors"
)

var logger = log.New("aries-framework/verifier/httpbinding")

// verifyRequest is the body posted to the verifier service.
type verifyRequest struct {
	ProofRequest          map[string]interface{}               `json:"proof_request"`
	Proof                 map[string]interface{}               `json:"proof"`
	Schemas               map[string]json.RawMessage           `json:"schemas"`
	CredentialDefinitions map[string]json.RawMessage           `json:"credential_definitions"`
	RevRegDefs            map[string]json.RawMessage           `json:"rev_reg_defs"`
	RevRegEntries         map[string]map[int64]json.RawMessage `json:"rev_reg_entries"`
}

type verifyResponse struct {
	Verified *bool `json:"verified"`
}

// Verifier verifies presentations via HTTP(s) endpoint.
type Verifier struct {
	endpointURL string
	client      *http.Client
	authToken   string
}

// Option configures the remote verifier.
type Option func(opts *Verifier)

// WithTimeout option is for definition of HTTP(s) timeout value of verification requests.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Verifier) {
		opts.client.Timeout = timeout
	}
}

// WithHTTPClient option is for custom http client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(opts *Verifier) {
		opts.client = httpClient
	}
}

// WithAuthToken add auth token for verification requests.
func WithAuthToken(authToken string) Option {
	return func(opts *Verifier) {
		opts.authToken = "Bearer " + authToken
	}
}

// New creates a new remote verifier posting to endpointURL.
func New(endpointURL string, opts ...Option) (*Verifier, error) {
	v := &Verifier{client: &http.Client{}}

	for _, opt := range opts {
		opt(v)
	}

	_, err := url.ParseRequestURI(endpointURL)
	if err != nil {
		return nil, errors.Wrap(err, "base URL invalid")
	}

	v.endpointURL = endpointURL

	return v, nil
}

// VerifyPresentation posts the proof with its ledger artifacts to the verifier service.
func (v *Verifier) VerifyPresentation(ctx context.Context, proofRequest, proof map[string]interface{},
	schemas, credDefs, revRegDefs map[string]json.RawMessage,
	revRegEntries map[string]map[int64]json.RawMessage) (bool, error) {
	body, err := json.Marshal(&verifyRequest{
		ProofRequest:          proofRequest,
		Proof:                 proof,
		Schemas:               schemas,
		CredentialDefinitions: credDefs,
		RevRegDefs:            revRegDefs,
		RevRegEntries:         revRegEntries,
	})
	if err != nil {
		return false, errors.Wrap(err, "marshal verify request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpointURL, bytes.NewReader(body))
	if err != nil {
		return false, errors.Wrap(err, "HTTP create post request failed")
	}

	req.Header.Set("Content-Type", "application/json")

	if v.authToken != "" {
		req.Header.Set("Authorization", v.authToken)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "HTTP Post request failed")
	}

	defer closeResponseBody(resp.Body)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, errors.Wrap(err, "reading response body failed")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return false, errors.Errorf("verifier service returned [%d] body [%s]", resp.StatusCode, respBody)
	}

	var result verifyResponse

	if err := json.Unmarshal(respBody, &result); err != nil {
		return false, errors.Wrapf(err, "decode verifier response [%s]", respBody)
	}

	if result.Verified == nil {
		return false, errors.Errorf("verifier response without verdict [%s]", respBody)
	}

	return *result.Verified, nil
}

func closeResponseBody(respBody io.Closer) {
	e := respBody.Close()
	if e != nil {
		logger.Errorf("Failed to close response body: %v", e)
	}
}
