/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when the ledger has no artifact under the requested identifier.
var ErrNotFound = errors.New("ledger artifact not found")

// Ledger gives scoped read access to an Indy style ledger.
// Every batch of reads is bracketed by Open and Session.Close.
type Ledger interface {
	Open(ctx context.Context) (Session, error)
}

// Session is an open ledger connection. Artifacts are returned as opaque JSON payloads.
type Session interface {
	GetSchema(ctx context.Context, schemaID string) (json.RawMessage, error)
	GetCredentialDefinition(ctx context.Context, credDefID string) (json.RawMessage, error)
	GetRevocationRegistryDefinition(ctx context.Context, revRegID string) (json.RawMessage, error)
	// GetRevocationRegistryEntry returns the registry entry valid at timestamp along with
	// the timestamp the ledger actually found it at.
	GetRevocationRegistryEntry(ctx context.Context, revRegID string, timestamp int64) (json.RawMessage, int64, error)
	Close() error
}
