/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package auditproof

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-auditproof-go/pkg/auditproof"
	"github.com/hyperledger/aries-auditproof-go/pkg/controller/command"
	auditproofcmd "github.com/hyperledger/aries-auditproof-go/pkg/controller/command/auditproof"
	"github.com/hyperledger/aries-auditproof-go/pkg/controller/rest"
	ledgerapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/ledger"
	verifierapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/verifier"
)

const (
	auditProofOperationID = "/auditproof"
	recordsPath           = auditProofOperationID + "/records"

	// VerifyPresentationPath endpoint.
	VerifyPresentationPath = auditProofOperationID + "/verify-presentation"
	// GetAuditRecordPath endpoint.
	GetAuditRecordPath = recordsPath + "/{id}"
	// GetAuditRecordsPath endpoint.
	GetAuditRecordsPath = recordsPath

	verifiedQueryParam = "verified"
)

// Operation contains basic common operations provided by controller REST API.
type Operation struct {
	command  *auditproofcmd.Command
	handlers []rest.Handler
}

// New returns new audit proof rest client protocol instance.
func New(ctx provider, notifier command.Notifier, opts ...auditproof.ResolverOption) (*Operation, error) {
	cmd, err := auditproofcmd.New(ctx, notifier, opts...)
	if err != nil {
		return nil, fmt.Errorf("new audit proof command : %w", err)
	}

	o := &Operation{command: cmd}
	o.registerHandler()

	return o, nil
}

// provider contains dependencies for the audit proof rest operations.
type provider interface {
	Ledger() ledgerapi.Ledger
	ProofVerifier() verifierapi.ProofVerifier
	StorageProvider() storage.Provider
}

// GetRESTHandlers get all controller API handler available for this service.
func (o *Operation) GetRESTHandlers() []rest.Handler {
	return o.handlers
}

// registerHandler register handlers to be exposed from this protocol service as REST API endpoints.
func (o *Operation) registerHandler() {
	o.handlers = []rest.Handler{
		rest.NewHandler(VerifyPresentationPath, http.MethodPost, o.VerifyPresentation),
		rest.NewHandler(GetAuditRecordPath, http.MethodGet, o.GetAuditRecord),
		rest.NewHandler(GetAuditRecordsPath, http.MethodGet, o.GetAuditRecords),
	}
}

// VerifyPresentation swagger:route POST /auditproof/verify-presentation auditproof verifyPresentationReq
//
// Verifies an Indy presentation against the ledger artifacts it references.
//
// Responses:
//
//	default: genericError
//	200: verifyPresentationRes
func (o *Operation) VerifyPresentation(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(func(w io.Writer, r io.Reader) command.Error {
		return o.command.VerifyPresentationContext(req.Context(), w, r)
	}, rw, req.Body)
}

// GetAuditRecord swagger:route GET /auditproof/records/{id} auditproof getAuditRecordReq
//
// Retrieves the audit record of a previous verification.
//
// Responses:
//
//	default: genericError
//	404: genericError
//	200: auditRecordRes
func (o *Operation) GetAuditRecord(rw http.ResponseWriter, req *http.Request) {
	params := mux.Vars(req)

	request, err := json.Marshal(auditproofcmd.IDArg{ID: params["id"]})
	if err != nil {
		rest.SendHTTPStatusError(rw, http.StatusBadRequest, auditproofcmd.InvalidRequestErrorCode, err)

		return
	}

	rw.Header().Set("Content-Type", "application/json")

	if cmdErr := o.command.GetAuditRecord(rw, bytes.NewBuffer(request)); cmdErr != nil {
		if cmdErr.Code() == auditproofcmd.AuditRecordNotFoundErrorCode {
			rest.SendHTTPStatusError(rw, http.StatusNotFound, cmdErr.Code(), cmdErr)

			return
		}

		rest.SendError(rw, cmdErr)
	}
}

// GetAuditRecords swagger:route GET /auditproof/records auditproof getAuditRecordsReq
//
// Retrieves the audit records with the given verdict (verified=true|false, default false).
//
// Responses:
//
//	default: genericError
//	200: auditRecordsRes
func (o *Operation) GetAuditRecords(rw http.ResponseWriter, req *http.Request) {
	var args auditproofcmd.AuditRecordsArgs

	if v := req.URL.Query().Get(verifiedQueryParam); v != "" {
		verified, err := strconv.ParseBool(v)
		if err != nil {
			rest.SendHTTPStatusError(rw, http.StatusBadRequest, auditproofcmd.InvalidRequestErrorCode,
				fmt.Errorf("invalid %s query parameter: %w", verifiedQueryParam, err))

			return
		}

		args.Verified = verified
	}

	request, err := json.Marshal(args)
	if err != nil {
		rest.SendHTTPStatusError(rw, http.StatusBadRequest, auditproofcmd.InvalidRequestErrorCode, err)

		return
	}

	rest.Execute(o.command.GetAuditRecords, rw, bytes.NewBuffer(request))
}
