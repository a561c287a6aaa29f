/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package controller

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-auditproof-go/pkg/auditproof"
	mocks "github.com/hyperledger/aries-auditproof-go/pkg/internal/gomocks/controller/command"
	memledger "github.com/hyperledger/aries-auditproof-go/pkg/ledger/mem"
	mockprovider "github.com/hyperledger/aries-auditproof-go/pkg/mock/provider"
	mockverifier "github.com/hyperledger/aries-auditproof-go/pkg/mock/verifier"
)

func newProvider() *mockprovider.Provider {
	return &mockprovider.Provider{
		LedgerValue:          memledger.New(),
		ProofVerifierValue:   &mockverifier.MockProofVerifier{},
		StorageProviderValue: mem.NewProvider(),
	}
}

func TestGetRESTHandlers(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		handlers, err := GetRESTHandlers(newProvider())
		require.NoError(t, err)
		// audit proof operation plus the websocket notifier
		require.Equal(t, 4, len(handlers))
	})

	t.Run("With options", func(t *testing.T) {
		handlers, err := GetRESTHandlers(newProvider(),
			WithWebhookURLs("http://localhost:8080"),
			WithResolverOptions(auditproof.WithZeroTimestamp()))
		require.NoError(t, err)
		require.Equal(t, 4, len(handlers))
	})

	t.Run("With custom notifier", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		handlers, err := GetRESTHandlers(newProvider(), WithNotifier(mocks.NewMockNotifier(ctrl)))
		require.NoError(t, err)
		require.Equal(t, 3, len(handlers))
	})

	t.Run("Missing ledger", func(t *testing.T) {
		p := newProvider()
		p.LedgerValue = nil

		handlers, err := GetRESTHandlers(p)
		require.Error(t, err)
		require.Contains(t, err.Error(), "ledger is mandatory")
		require.Nil(t, handlers)
	})
}

func TestGetCommandHandlers(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		handlers, err := GetCommandHandlers(newProvider())
		require.NoError(t, err)
		require.Equal(t, 3, len(handlers))
	})

	t.Run("Missing verifier", func(t *testing.T) {
		p := newProvider()
		p.ProofVerifierValue = nil

		handlers, err := GetCommandHandlers(p)
		require.Error(t, err)
		require.Contains(t, err.Error(), "proof verifier is mandatory")
		require.Nil(t, handlers)
	})
}
