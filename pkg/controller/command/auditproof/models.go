/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package auditproof

import (
	"github.com/hyperledger/aries-auditproof-go/pkg/auditproof"
	"github.com/hyperledger/aries-auditproof-go/pkg/store/audit"
)

// VerifyPresentationArgs model
//
// This is used for verifying an Indy presentation against its proof request.
type VerifyPresentationArgs struct {
	// PresentationRequest is the Indy proof request the presentation answers.
	PresentationRequest auditproof.ProofRequest `json:"presentation_request"`
	// Presentation is the Indy proof, including its identifiers.
	Presentation auditproof.Presentation `json:"presentation"`
}

// VerifyPresentationResponse model
//
// Represents a response of verify presentation command.
type VerifyPresentationResponse struct {
	// AuditID identifies the audit record of this verification.
	AuditID string `json:"audit_id"`
	// Verified is the verdict of the proof verifier.
	Verified bool `json:"verified"`
}

// IDArg model
//
// This is used for querying an audit record by id.
type IDArg struct {
	// ID of the audit record.
	ID string `json:"id"`
}

// AuditRecordResponse model
//
// Represents a response of get audit record command.
type AuditRecordResponse struct {
	Record *audit.Record `json:"record"`
}

// AuditRecordsArgs model
//
// This is used for querying audit records by verdict.
type AuditRecordsArgs struct {
	Verified bool `json:"verified"`
}

// AuditRecordsResponse model
//
// Represents a response of get audit records command.
type AuditRecordsResponse struct {
	Records []*audit.Record `json:"records"`
}
