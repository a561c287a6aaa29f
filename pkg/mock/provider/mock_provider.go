/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package provider

import (
	"github.com/hyperledger/aries-framework-go/spi/storage"

	ledgerapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/ledger"
	verifierapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/verifier"
)

// Provider mocks provider needed for audit proof manager and controller initialization.
type Provider struct {
	LedgerValue          ledgerapi.Ledger
	ProofVerifierValue   verifierapi.ProofVerifier
	StorageProviderValue storage.Provider
}

// Ledger returns the ledger.
func (p *Provider) Ledger() ledgerapi.Ledger {
	return p.LedgerValue
}

// ProofVerifier returns the proof verifier.
func (p *Provider) ProofVerifier() verifierapi.ProofVerifier {
	return p.ProofVerifierValue
}

// StorageProvider returns the storage provider.
func (p *Provider) StorageProvider() storage.Provider {
	return p.StorageProviderValue
}
