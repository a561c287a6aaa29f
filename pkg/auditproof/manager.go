/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package auditproof

import (
	"context"
	"errors"

	"github.com/hyperledger/aries-framework-go/component/log"

	ledgerapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/ledger"
	verifierapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/verifier"
)

var logger = log.New("aries-framework/auditproof")

// provider contains dependencies for the audit proof manager.
type provider interface {
	Ledger() ledgerapi.Ledger
	ProofVerifier() verifierapi.ProofVerifier
}

// Manager audits Indy presentations against the ledger they were issued on.
type Manager struct {
	ledger   ledgerapi.Ledger
	verifier verifierapi.ProofVerifier
	opts     []ResolverOption
}

// New returns a new audit proof manager.
func New(ctx provider, opts ...ResolverOption) (*Manager, error) {
	l := ctx.Ledger()
	if l == nil {
		return nil, errors.New("ledger is mandatory")
	}

	v := ctx.ProofVerifier()
	if v == nil {
		return nil, errors.New("proof verifier is mandatory")
	}

	return &Manager{ledger: l, verifier: v, opts: opts}, nil
}

// VerifyPresentation verifies presentation against request with the manager's ledger and verifier.
func (m *Manager) VerifyPresentation(ctx context.Context, request ProofRequest, presentation Presentation) (bool, error) {
	return VerifyPresentation(ctx, request, presentation, m.ledger, m.verifier, m.opts...)
}

// VerifyPresentation resolves the ledger artifacts referenced by presentation and hands them,
// together with the unmodified request and presentation, to the proof verifier.
// returns:
//
//	verdict of the proof verifier (false with nil error for an invalid proof)
//	ErrMalformedPresentation, *ResolutionError or *VerifierError in case of errors
func VerifyPresentation(ctx context.Context, request ProofRequest, presentation Presentation,
	ledger ledgerapi.Ledger, verifier verifierapi.ProofVerifier, opts ...ResolverOption) (bool, error) {
	identifiers, err := Identifiers(presentation)
	if err != nil {
		return false, err
	}

	bundle, err := Resolve(ctx, identifiers, ledger, opts...)
	if err != nil {
		return false, err
	}

	if err = ctx.Err(); err != nil {
		return false, err
	}

	verified, err := verifier.VerifyPresentation(ctx, request, presentation,
		bundle.Schemas, bundle.CredentialDefinitions, bundle.RevRegDefs, bundle.RevRegEntries)
	if err != nil {
		return false, &VerifierError{Err: err}
	}

	logger.Debugf("presentation with %d identifiers verified=%t", len(identifiers), verified)

	return verified, nil
}
