/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package cache shares immutable ledger reads across ledger sessions.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bluele/gcache"
	"github.com/hyperledger/aries-framework-go/component/log"

	ledgerapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/ledger"
)

var logger = log.New("aries-framework/ledger/cache")

const defaultSize = 1000

// Option configures the cached ledger.
type Option func(opts *Ledger)

// WithSize sets the maximum number of cached artifacts.
func WithSize(size int) Option {
	return func(opts *Ledger) {
		opts.size = size
	}
}

// WithExpiration sets how long a cached artifact stays valid.
func WithExpiration(expiration time.Duration) Option {
	return func(opts *Ledger) {
		opts.expiration = expiration
	}
}

// Ledger caches successful reads of an underlying ledger in an LRU cache.
// underlying gcache is threadsafe, no need of locks.
type Ledger struct {
	next       ledgerapi.Ledger
	cache      gcache.Cache
	size       int
	expiration time.Duration
}

// New wraps next with an LRU read cache.
func New(next ledgerapi.Ledger, opts ...Option) *Ledger {
	l := &Ledger{next: next, size: defaultSize}

	for _, opt := range opts {
		opt(l)
	}

	builder := gcache.New(l.size).LRU()
	if l.expiration > 0 {
		builder = builder.Expiration(l.expiration)
	}

	l.cache = builder.Build()

	return l
}

// Open opens a session of the underlying ledger.
func (l *Ledger) Open(ctx context.Context) (ledgerapi.Session, error) {
	s, err := l.next.Open(ctx)
	if err != nil {
		return nil, err
	}

	return &session{next: s, cache: l.cache}, nil
}

// Stats returns the cache hit and miss counts.
func (l *Ledger) Stats() (hits, misses uint64) {
	return l.cache.HitCount(), l.cache.MissCount()
}

// Purge drops every cached artifact.
func (l *Ledger) Purge() {
	l.cache.Purge()
}

type entry struct {
	value     json.RawMessage
	timestamp int64
}

type session struct {
	next  ledgerapi.Session
	cache gcache.Cache
}

func (s *session) GetSchema(ctx context.Context, schemaID string) (json.RawMessage, error) {
	return s.artifact("schema|"+schemaID, func() (json.RawMessage, error) {
		return s.next.GetSchema(ctx, schemaID)
	})
}

func (s *session) GetCredentialDefinition(ctx context.Context, credDefID string) (json.RawMessage, error) {
	return s.artifact("cred-def|"+credDefID, func() (json.RawMessage, error) {
		return s.next.GetCredentialDefinition(ctx, credDefID)
	})
}

func (s *session) GetRevocationRegistryDefinition(ctx context.Context, revRegID string) (json.RawMessage, error) {
	return s.artifact("rev-reg-def|"+revRegID, func() (json.RawMessage, error) {
		return s.next.GetRevocationRegistryDefinition(ctx, revRegID)
	})
}

func (s *session) GetRevocationRegistryEntry(ctx context.Context, revRegID string,
	timestamp int64) (json.RawMessage, int64, error) {
	key := fmt.Sprintf("rev-reg-entry|%s|%d", revRegID, timestamp)

	if v, err := s.cache.Get(key); err == nil {
		if e, ok := v.(*entry); ok {
			return e.value, e.timestamp, nil
		}
	}

	value, found, err := s.next.GetRevocationRegistryEntry(ctx, revRegID, timestamp)
	if err != nil {
		return nil, 0, err
	}

	s.set(key, &entry{value: value, timestamp: found})

	return value, found, nil
}

func (s *session) Close() error {
	return s.next.Close()
}

func (s *session) artifact(key string, read func() (json.RawMessage, error)) (json.RawMessage, error) {
	if v, err := s.cache.Get(key); err == nil {
		if a, ok := v.(json.RawMessage); ok {
			return a, nil
		}
	}

	a, err := read()
	if err != nil {
		return nil, err
	}

	s.set(key, a)

	return a, nil
}

func (s *session) set(key string, value interface{}) {
	if err := s.cache.Set(key, value); err != nil {
		logger.Warnf("failed to cache ledger artifact %s: %v", key, err)
	}
}
