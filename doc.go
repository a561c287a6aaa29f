/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package auditproof enables Go developers to audit Hyperledger Indy (AnonCreds) presentations
// against the ledger their credentials were issued on.
//
// Packages for end developer usage
//
// pkg/auditproof: Resolves the schemas, credential definitions and revocation artifacts referenced by a
// presentation and hands them to a proof verifier.
//
// pkg/controller: Exposes audit proof verification as controller commands and REST handlers.
//
// pkg/ledger/mem, pkg/ledger/httpbinding, pkg/ledger/cache: Ledger implementations readable by the resolver.
//
// pkg/verifier/httpbinding: Proof verifier backed by a remote verification service.
//
// Basic workflow
//
//  1. Create a ledger and a proof verifier.
//  2. Build a manager with auditproof.New, passing a provider returning both.
//  3. Call VerifyPresentation with the presentation request and the presentation.
//  4. Inspect the verdict; resolution and verifier failures are returned as typed errors.
package auditproof
