/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mem implements an in-memory Indy ledger.
package mem

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/exp/slices"

	ledgerapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/ledger"
)

// Ledger is an in-memory ledger. It is safe for concurrent use.
type Ledger struct {
	mu         sync.RWMutex
	schemas    map[string]json.RawMessage
	credDefs   map[string]json.RawMessage
	revRegDefs map[string]json.RawMessage
	entries    map[string]*registryEntries

	sessions struct {
		sync.Mutex
		opened, closed int
	}
}

// registryEntries keeps the entries of a revocation registry ordered by timestamp.
type registryEntries struct {
	timestamps []int64
	values     map[int64]json.RawMessage
}

// New returns a new, empty in-memory ledger.
func New() *Ledger {
	return &Ledger{
		schemas:    map[string]json.RawMessage{},
		credDefs:   map[string]json.RawMessage{},
		revRegDefs: map[string]json.RawMessage{},
		entries:    map[string]*registryEntries{},
	}
}

// PutSchema writes a schema.
func (l *Ledger) PutSchema(id string, schema json.RawMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.schemas[id] = schema
}

// PutCredentialDefinition writes a credential definition.
func (l *Ledger) PutCredentialDefinition(id string, credDef json.RawMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.credDefs[id] = credDef
}

// PutRevocationRegistryDefinition writes a revocation registry definition.
func (l *Ledger) PutRevocationRegistryDefinition(id string, revRegDef json.RawMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.revRegDefs[id] = revRegDef
}

// PutRevocationRegistryEntry writes the state of a revocation registry at timestamp.
func (l *Ledger) PutRevocationRegistryEntry(id string, timestamp int64, entry json.RawMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		e = &registryEntries{values: map[int64]json.RawMessage{}}
		l.entries[id] = e
	}

	if _, exists := e.values[timestamp]; !exists {
		i, _ := slices.BinarySearch(e.timestamps, timestamp)
		e.timestamps = slices.Insert(e.timestamps, i, timestamp)
	}

	e.values[timestamp] = entry
}

// Sessions returns how many sessions were opened and closed so far.
func (l *Ledger) Sessions() (opened, closed int) {
	l.sessions.Lock()
	defer l.sessions.Unlock()

	return l.sessions.opened, l.sessions.closed
}

// Open opens a new ledger session.
func (l *Ledger) Open(ctx context.Context) (ledgerapi.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.sessions.Lock()
	l.sessions.opened++
	l.sessions.Unlock()

	return &session{ledger: l}, nil
}

type session struct {
	ledger *Ledger
	once   sync.Once
}

func (s *session) GetSchema(_ context.Context, schemaID string) (json.RawMessage, error) {
	return s.ledger.get(s.ledger.schemas, schemaID)
}

func (s *session) GetCredentialDefinition(_ context.Context, credDefID string) (json.RawMessage, error) {
	return s.ledger.get(s.ledger.credDefs, credDefID)
}

func (s *session) GetRevocationRegistryDefinition(_ context.Context, revRegID string) (json.RawMessage, error) {
	return s.ledger.get(s.ledger.revRegDefs, revRegID)
}

// GetRevocationRegistryEntry returns the latest entry written at or before timestamp.
func (s *session) GetRevocationRegistryEntry(_ context.Context, revRegID string,
	timestamp int64) (json.RawMessage, int64, error) {
	s.ledger.mu.RLock()
	defer s.ledger.mu.RUnlock()

	e, ok := s.ledger.entries[revRegID]
	if !ok {
		return nil, 0, fmt.Errorf("revocation registry %s: %w", revRegID, ledgerapi.ErrNotFound)
	}

	i, found := slices.BinarySearch(e.timestamps, timestamp)
	if !found {
		if i == 0 {
			return nil, 0, fmt.Errorf("revocation registry %s before %d: %w", revRegID, timestamp, ledgerapi.ErrNotFound)
		}

		i--
	}

	at := e.timestamps[i]

	return e.values[at], at, nil
}

func (s *session) Close() error {
	s.once.Do(func() {
		s.ledger.sessions.Lock()
		s.ledger.sessions.closed++
		s.ledger.sessions.Unlock()
	})

	return nil
}

func (l *Ledger) get(m map[string]json.RawMessage, id string) (json.RawMessage, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	v, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ledgerapi.ErrNotFound)
	}

	return v, nil
}
