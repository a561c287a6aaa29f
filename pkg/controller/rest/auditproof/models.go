/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package auditproof

import (
	"github.com/hyperledger/aries-auditproof-go/pkg/controller/command/auditproof"
)

// verifyPresentationReq model
//
// swagger:parameters verifyPresentationReq
type verifyPresentationReq struct { // nolint: unused,deadcode
	// Params for verifying a presentation
	//
	// in: body
	// required: true
	Params auditproof.VerifyPresentationArgs
}

// verifyPresentationRes model
//
// swagger:response verifyPresentationRes
type verifyPresentationRes struct { // nolint: unused,deadcode
	// in: body
	auditproof.VerifyPresentationResponse
}

// getAuditRecordReq model
//
// swagger:parameters getAuditRecordReq
type getAuditRecordReq struct { // nolint: unused,deadcode
	// Audit record ID
	//
	// in: path
	// required: true
	ID string `json:"id"`
}

// auditRecordRes model
//
// swagger:response auditRecordRes
type auditRecordRes struct { // nolint: unused,deadcode
	// in: body
	auditproof.AuditRecordResponse
}

// getAuditRecordsReq model
//
// swagger:parameters getAuditRecordsReq
type getAuditRecordsReq struct { // nolint: unused,deadcode
	// Verdict of the audit records to list
	//
	// in: query
	Verified bool `json:"verified"`
}

// auditRecordsRes model
//
// swagger:response auditRecordsRes
type auditRecordsRes struct { // nolint: unused,deadcode
	// in: body
	auditproof.AuditRecordsResponse
}
