/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package auditproof

import (
	"context"
	"encoding/json"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	ledgerapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/ledger"
)

// Bundle holds the ledger artifacts a presentation was issued and possibly revoked under,
// keyed the way the proof verifier expects them.
type Bundle struct {
	// SchemaIDs and CredDefIDs list the ids in presentation order, duplicates included.
	SchemaIDs  []string
	CredDefIDs []string

	Schemas               map[string]json.RawMessage
	CredentialDefinitions map[string]json.RawMessage
	RevRegDefs            map[string]json.RawMessage
	// RevRegEntries is keyed by revocation registry id, then by the requested timestamp.
	RevRegEntries map[string]map[int64]json.RawMessage
}

func newBundle() *Bundle {
	return &Bundle{
		Schemas:               map[string]json.RawMessage{},
		CredentialDefinitions: map[string]json.RawMessage{},
		RevRegDefs:            map[string]json.RawMessage{},
		RevRegEntries:         map[string]map[int64]json.RawMessage{},
	}
}

// ResolverOption configures artifact resolution.
type ResolverOption func(opts *resolverOpts)

type resolverOpts struct {
	zeroTimestamp bool
}

// WithZeroTimestamp makes a present timestamp of 0 count as a timestamp. By default
// a zero timestamp is handled like a missing one and no registry entry is resolved for it.
func WithZeroTimestamp() ResolverOption {
	return func(opts *resolverOpts) {
		opts.zeroTimestamp = true
	}
}

// Resolve looks up every distinct ledger artifact referenced by identifiers, inside a single
// ledger session. Any failed lookup aborts resolution and no bundle is returned.
func Resolve(ctx context.Context, identifiers []Identifier, ledger ledgerapi.Ledger,
	opts ...ResolverOption) (*Bundle, error) {
	r := &resolver{bundle: newBundle()}

	for _, opt := range opts {
		opt(&r.opts)
	}

	if err := ctx.Err(); err != nil {
		return nil, &ResolutionError{Kind: LedgerSession, Err: err}
	}

	session, err := ledger.Open(ctx)
	if err != nil {
		return nil, &ResolutionError{Kind: LedgerSession, Err: err}
	}

	defer func() {
		if errClose := session.Close(); errClose != nil {
			logger.Warnf("failed to close ledger session: %s", errClose)
		}
	}()

	r.session = session

	for _, identifier := range identifiers {
		if err := r.add(ctx, identifier); err != nil {
			return nil, err
		}
	}

	logger.Debugf("resolved schemas=%v credDefs=%v revRegDefs=%v",
		sortedKeys(r.bundle.Schemas), sortedKeys(r.bundle.CredentialDefinitions), sortedKeys(r.bundle.RevRegDefs))

	return r.bundle, nil
}

type resolver struct {
	session ledgerapi.Session
	bundle  *Bundle
	opts    resolverOpts
}

func (r *resolver) add(ctx context.Context, identifier Identifier) error { //nolint:gocyclo
	b := r.bundle

	b.SchemaIDs = append(b.SchemaIDs, identifier.SchemaID)
	b.CredDefIDs = append(b.CredDefIDs, identifier.CredDefID)

	if _, ok := b.Schemas[identifier.SchemaID]; !ok {
		schema, err := lookup(ctx, SchemaArtifact, identifier.SchemaID, r.session.GetSchema)
		if err != nil {
			return err
		}

		b.Schemas[identifier.SchemaID] = schema
	}

	if _, ok := b.CredentialDefinitions[identifier.CredDefID]; !ok {
		credDef, err := lookup(ctx, CredDefArtifact, identifier.CredDefID, r.session.GetCredentialDefinition)
		if err != nil {
			return err
		}

		b.CredentialDefinitions[identifier.CredDefID] = credDef
	}

	if identifier.RevRegID == "" {
		return nil
	}

	if _, ok := b.RevRegDefs[identifier.RevRegID]; !ok {
		revRegDef, err := lookup(ctx, RevRegDefArtifact, identifier.RevRegID,
			r.session.GetRevocationRegistryDefinition)
		if err != nil {
			return err
		}

		b.RevRegDefs[identifier.RevRegID] = revRegDef
	}

	timestamp, ok := r.timestamp(identifier)
	if !ok {
		return nil
	}

	entries, ok := b.RevRegEntries[identifier.RevRegID]
	if !ok {
		entries = map[int64]json.RawMessage{}
		b.RevRegEntries[identifier.RevRegID] = entries
	}

	if _, ok := entries[timestamp]; ok {
		return nil
	}

	entry, err := r.entry(ctx, identifier.RevRegID, timestamp)
	if err != nil {
		return err
	}

	entries[timestamp] = entry

	return nil
}

func (r *resolver) timestamp(identifier Identifier) (int64, bool) {
	if identifier.Timestamp == nil {
		return 0, false
	}

	if *identifier.Timestamp == 0 && !r.opts.zeroTimestamp {
		return 0, false
	}

	return *identifier.Timestamp, true
}

// entry stores the registry entry under the requested timestamp, not the one the ledger found it at.
func (r *resolver) entry(ctx context.Context, revRegID string, timestamp int64) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ResolutionError{Kind: RevRegEntryArtifact, ID: revRegID, Timestamp: timestamp, Err: err}
	}

	entry, found, err := r.session.GetRevocationRegistryEntry(ctx, revRegID, timestamp)
	if err != nil {
		return nil, &ResolutionError{Kind: RevRegEntryArtifact, ID: revRegID, Timestamp: timestamp, Err: err}
	}

	if found != timestamp {
		logger.Debugf("revocation registry entry [%s] requested at [%d] found at [%d]", revRegID, timestamp, found)
	}

	return entry, nil
}

func lookup(ctx context.Context, kind ArtifactKind, id string,
	get func(context.Context, string) (json.RawMessage, error)) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ResolutionError{Kind: kind, ID: id, Err: err}
	}

	artifact, err := get(ctx, id)
	if err != nil {
		return nil, &ResolutionError{Kind: kind, ID: id, Err: err}
	}

	return artifact, nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)

	return keys
}
