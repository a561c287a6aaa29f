/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifier

import (
	"context"
	"encoding/json"
	"sync"
)

// Request captures the arguments of a VerifyPresentation call.
type Request struct {
	ProofRequest  map[string]interface{}
	Proof         map[string]interface{}
	Schemas       map[string]json.RawMessage
	CredDefs      map[string]json.RawMessage
	RevRegDefs    map[string]json.RawMessage
	RevRegEntries map[string]map[int64]json.RawMessage
}

// MockProofVerifier mock implementation of the proof verifier
// to be used only for unit tests.
type MockProofVerifier struct {
	VerifiedValue bool
	VerifyErr     error
	VerifyFunc    func(req *Request) (bool, error)

	mu       sync.Mutex
	requests []*Request
}

// VerifyPresentation records the request and returns the configured verdict.
func (m *MockProofVerifier) VerifyPresentation(_ context.Context, proofRequest, proof map[string]interface{},
	schemas, credDefs, revRegDefs map[string]json.RawMessage,
	revRegEntries map[string]map[int64]json.RawMessage) (bool, error) {
	req := &Request{
		ProofRequest:  proofRequest,
		Proof:         proof,
		Schemas:       schemas,
		CredDefs:      credDefs,
		RevRegDefs:    revRegDefs,
		RevRegEntries: revRegEntries,
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.VerifyFunc != nil {
		return m.VerifyFunc(req)
	}

	if m.VerifyErr != nil {
		return false, m.VerifyErr
	}

	return m.VerifiedValue, nil
}

// Requests returns the requests received so far.
func (m *MockProofVerifier) Requests() []*Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*Request(nil), m.requests...)
}
