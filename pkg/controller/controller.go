/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package controller

import (
	"fmt"

	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-auditproof-go/pkg/auditproof"
	"github.com/hyperledger/aries-auditproof-go/pkg/controller/command"
	auditproofcmd "github.com/hyperledger/aries-auditproof-go/pkg/controller/command/auditproof"
	"github.com/hyperledger/aries-auditproof-go/pkg/controller/rest"
	auditproofrest "github.com/hyperledger/aries-auditproof-go/pkg/controller/rest/auditproof"
	"github.com/hyperledger/aries-auditproof-go/pkg/controller/webnotifier"
	ledgerapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/ledger"
	verifierapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/verifier"
)

type allOpts struct {
	webhookURLs     []string
	notifier        command.Notifier
	resolverOptions []auditproof.ResolverOption
}

const wsPath = "/ws"

// Opt represents a controller option.
type Opt func(opts *allOpts)

// WithWebhookURLs is an option for setting up a webhook dispatcher which will notify clients of events.
func WithWebhookURLs(webhookURLs ...string) Opt {
	return func(opts *allOpts) {
		opts.webhookURLs = webhookURLs
	}
}

// WithNotifier is an option for setting up a notifier which will notify clients of events.
func WithNotifier(notifier command.Notifier) Opt {
	return func(opts *allOpts) {
		opts.notifier = notifier
	}
}

// WithResolverOptions passes options to the ledger artifact resolver of every verification.
func WithResolverOptions(options ...auditproof.ResolverOption) Opt {
	return func(opts *allOpts) {
		opts.resolverOptions = options
	}
}

// Provider contains dependencies of the controller.
type Provider interface {
	Ledger() ledgerapi.Ledger
	ProofVerifier() verifierapi.ProofVerifier
	StorageProvider() storage.Provider
}

type handlerProvider interface {
	GetRESTHandlers() []rest.Handler
}

// GetRESTHandlers returns all REST handlers provided by controller.
func GetRESTHandlers(ctx Provider, opts ...Opt) ([]rest.Handler, error) {
	restAPIOpts := applyOpts(opts)

	// audit proof REST operation
	auditProofOp, err := auditproofrest.New(ctx, restAPIOpts.notifier, restAPIOpts.resolverOptions...)
	if err != nil {
		return nil, fmt.Errorf("create audit proof rest operation : %w", err)
	}

	var allHandlers []rest.Handler
	allHandlers = append(allHandlers, auditProofOp.GetRESTHandlers()...)

	nhp, ok := restAPIOpts.notifier.(handlerProvider)
	if ok {
		allHandlers = append(allHandlers, nhp.GetRESTHandlers()...)
	}

	return allHandlers, nil
}

// GetCommandHandlers returns all command handlers provided by controller.
func GetCommandHandlers(ctx Provider, opts ...Opt) ([]command.Handler, error) {
	cmdOpts := applyOpts(opts)

	// audit proof command operation
	auditProofCmd, err := auditproofcmd.New(ctx, cmdOpts.notifier, cmdOpts.resolverOptions...)
	if err != nil {
		return nil, fmt.Errorf("create audit proof command : %w", err)
	}

	var allHandlers []command.Handler
	allHandlers = append(allHandlers, auditProofCmd.GetHandlers()...)

	return allHandlers, nil
}

func applyOpts(opts []Opt) *allOpts {
	o := &allOpts{}
	// Apply options
	for _, opt := range opts {
		opt(o)
	}

	if o.notifier == nil {
		o.notifier = webnotifier.New(wsPath, o.webhookURLs)
	}

	return o
}
