/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package auditproof

import (
	"errors"
	"fmt"
)

// ErrMalformedPresentation is returned when a presentation carries no usable identifier list.
var ErrMalformedPresentation = errors.New("malformed presentation")

// ArtifactKind names the kind of ledger artifact a lookup was made for.
type ArtifactKind string

// Artifact kinds.
const (
	LedgerSession       ArtifactKind = "ledger session"
	SchemaArtifact      ArtifactKind = "schema"
	CredDefArtifact     ArtifactKind = "credential definition"
	RevRegDefArtifact   ArtifactKind = "revocation registry definition"
	RevRegEntryArtifact ArtifactKind = "revocation registry entry"
)

// ResolutionError is returned when a ledger artifact referenced by a presentation
// could not be resolved. Verification is aborted whenever it occurs.
type ResolutionError struct {
	Kind ArtifactKind
	ID   string
	// Timestamp is only set for revocation registry entries.
	Timestamp int64
	Err       error
}

func (e *ResolutionError) Error() string {
	switch {
	case e.Kind == RevRegEntryArtifact:
		return fmt.Sprintf("resolve %s [%s] at [%d]: %v", e.Kind, e.ID, e.Timestamp, e.Err)
	case e.ID == "":
		return fmt.Sprintf("resolve %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("resolve %s [%s]: %v", e.Kind, e.ID, e.Err)
	}
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// VerifierError wraps a failure of the proof verifier itself, as opposed to a negative verdict.
type VerifierError struct {
	Err error
}

func (e *VerifierError) Error() string {
	return fmt.Sprintf("proof verifier: %v", e.Err)
}

func (e *VerifierError) Unwrap() error {
	return e.Err
}
