/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package auditproof

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-auditproof-go/pkg/auditproof"
	"github.com/hyperledger/aries-auditproof-go/pkg/controller/command"
	ledgerapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/ledger"
	verifierapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/verifier"
	"github.com/hyperledger/aries-auditproof-go/pkg/internal/logutil"
	"github.com/hyperledger/aries-auditproof-go/pkg/store/audit"
)

var logger = log.New("aries-framework/command/auditproof")

// Error codes.
const (
	// InvalidRequestErrorCode is typically a code for invalid requests.
	InvalidRequestErrorCode = command.Code(iota + command.AuditProof)

	// MalformedPresentationErrorCode is for presentations without a usable identifier list.
	MalformedPresentationErrorCode

	// ResolveArtifactsErrorCode is for failed ledger lookups.
	ResolveArtifactsErrorCode

	// VerifyProofErrorCode is for failures of the proof verifier.
	VerifyProofErrorCode

	// SaveAuditRecordErrorCode is for audit record save errors.
	SaveAuditRecordErrorCode

	// GetAuditRecordErrorCode is for audit record get errors.
	GetAuditRecordErrorCode

	// AuditRecordNotFoundErrorCode is for lookups of unknown audit ids.
	AuditRecordNotFoundErrorCode

	// GetAuditRecordsErrorCode is for audit record query errors.
	GetAuditRecordsErrorCode
)

// constants for the audit proof controller's methods.
const (
	// command name.
	CommandName = "auditproof"

	// command methods.
	VerifyPresentationCommandMethod = "VerifyPresentation"
	GetAuditRecordCommandMethod     = "GetAuditRecord"
	GetAuditRecordsCommandMethod    = "GetAuditRecords"

	// error messages.
	errEmptyPresentation        = "presentation is mandatory"
	errEmptyPresentationRequest = "presentation request is mandatory"
	errEmptyID                  = "id is mandatory"

	// log constants.
	auditID = "auditID"

	// AuditProofTopic is the notification topic of finished verifications.
	AuditProofTopic = "auditproof"
)

// provider contains dependencies for the audit proof controller command operations.
type provider interface {
	Ledger() ledgerapi.Ledger
	ProofVerifier() verifierapi.ProofVerifier
	StorageProvider() storage.Provider
}

// Command contains command operations provided by audit proof controller.
type Command struct {
	manager  *auditproof.Manager
	store    *audit.Store
	notifier command.Notifier
}

// New returns new audit proof controller command instance.
// Finished verifications are published to notifier under AuditProofTopic; notifier may be nil.
func New(ctx provider, notifier command.Notifier, opts ...auditproof.ResolverOption) (*Command, error) {
	manager, err := auditproof.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("new audit proof manager : %w", err)
	}

	store, err := audit.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("new audit store : %w", err)
	}

	return &Command{
		manager:  manager,
		store:    store,
		notifier: notifier,
	}, nil
}

// GetHandlers returns list of all commands supported by this controller command.
func (c *Command) GetHandlers() []command.Handler {
	return []command.Handler{
		command.NewHandler(CommandName, VerifyPresentationCommandMethod, c.VerifyPresentation),
		command.NewHandler(CommandName, GetAuditRecordCommandMethod, c.GetAuditRecord),
		command.NewHandler(CommandName, GetAuditRecordsCommandMethod, c.GetAuditRecords),
	}
}

// VerifyPresentation verifies an Indy presentation and records the outcome.
func (c *Command) VerifyPresentation(rw io.Writer, req io.Reader) command.Error {
	return c.VerifyPresentationContext(context.Background(), rw, req)
}

// VerifyPresentationContext is VerifyPresentation bound to ctx: canceling ctx aborts the ledger
// lookups and the verifier call. The outcome is recorded and published either way.
func (c *Command) VerifyPresentationContext(ctx context.Context, rw io.Writer, req io.Reader) command.Error {
	var request VerifyPresentationArgs

	if err := json.NewDecoder(req).Decode(&request); err != nil {
		logutil.LogInfo(logger, CommandName, VerifyPresentationCommandMethod, err.Error())

		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	if request.PresentationRequest == nil {
		logutil.LogDebug(logger, CommandName, VerifyPresentationCommandMethod, errEmptyPresentationRequest)

		return command.NewValidationError(InvalidRequestErrorCode, errors.New(errEmptyPresentationRequest))
	}

	if request.Presentation == nil {
		logutil.LogDebug(logger, CommandName, VerifyPresentationCommandMethod, errEmptyPresentation)

		return command.NewValidationError(InvalidRequestErrorCode, errors.New(errEmptyPresentation))
	}

	record := &audit.Record{ID: uuid.New().String(), CreatedAt: time.Now().UTC()}

	if identifiers, err := auditproof.Identifiers(request.Presentation); err == nil {
		for _, identifier := range identifiers {
			record.SchemaIDs = append(record.SchemaIDs, identifier.SchemaID)
			record.CredDefIDs = append(record.CredDefIDs, identifier.CredDefID)
		}
	}

	verified, err := c.manager.VerifyPresentation(ctx, request.PresentationRequest,
		request.Presentation)

	record.Verified = verified
	if err != nil {
		record.Error = err.Error()
	}

	if errSave := c.store.SaveRecord(record); errSave != nil {
		logutil.LogError(logger, CommandName, VerifyPresentationCommandMethod, "save audit record: "+errSave.Error(),
			logutil.CreateKeyValueString(auditID, record.ID))

		return command.NewExecuteError(SaveAuditRecordErrorCode, fmt.Errorf("save audit record: %w", errSave))
	}

	c.notify(record)

	if err != nil {
		logutil.LogError(logger, CommandName, VerifyPresentationCommandMethod, "verify presentation: "+err.Error(),
			logutil.CreateKeyValueString(auditID, record.ID))

		return verificationError(err)
	}

	command.WriteNillableResponse(rw, &VerifyPresentationResponse{
		AuditID:  record.ID,
		Verified: verified,
	}, logger)

	logutil.LogDebug(logger, CommandName, VerifyPresentationCommandMethod, "success",
		logutil.CreateKeyValueString(auditID, record.ID), logutil.CreateKeyValueBool("verified", verified))

	return nil
}

func (c *Command) notify(record *audit.Record) {
	if c.notifier == nil {
		return
	}

	msg, err := json.Marshal(record)
	if err != nil {
		logutil.LogWarn(logger, CommandName, VerifyPresentationCommandMethod, "marshal notification: "+err.Error())

		return
	}

	// not bound to the request context: records of canceled verifications are published too.
	if err = c.notifier.Notify(context.Background(), AuditProofTopic, msg); err != nil {
		logutil.LogWarn(logger, CommandName, VerifyPresentationCommandMethod, "notify: "+err.Error(),
			logutil.CreateKeyValueString(auditID, record.ID))
	}
}

func verificationError(err error) command.Error {
	var resolutionErr *auditproof.ResolutionError

	switch {
	case errors.Is(err, auditproof.ErrMalformedPresentation):
		return command.NewValidationError(MalformedPresentationErrorCode, fmt.Errorf("verify presentation: %w", err))
	case errors.As(err, &resolutionErr):
		return command.NewExecuteError(ResolveArtifactsErrorCode, fmt.Errorf("verify presentation: %w", err))
	default:
		return command.NewExecuteError(VerifyProofErrorCode, fmt.Errorf("verify presentation: %w", err))
	}
}

// GetAuditRecord returns the audit record of a previous verification.
func (c *Command) GetAuditRecord(rw io.Writer, req io.Reader) command.Error {
	var request IDArg

	if err := json.NewDecoder(req).Decode(&request); err != nil {
		logutil.LogInfo(logger, CommandName, GetAuditRecordCommandMethod, err.Error())

		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	if request.ID == "" {
		logutil.LogDebug(logger, CommandName, GetAuditRecordCommandMethod, errEmptyID)

		return command.NewValidationError(InvalidRequestErrorCode, errors.New(errEmptyID))
	}

	record, err := c.store.GetRecord(request.ID)
	if errors.Is(err, audit.ErrNotFound) {
		logutil.LogDebug(logger, CommandName, GetAuditRecordCommandMethod, err.Error(),
			logutil.CreateKeyValueString(auditID, request.ID))

		return command.NewValidationError(AuditRecordNotFoundErrorCode, fmt.Errorf("get audit record: %w", err))
	}

	if err != nil {
		logutil.LogError(logger, CommandName, GetAuditRecordCommandMethod, "get audit record: "+err.Error(),
			logutil.CreateKeyValueString(auditID, request.ID))

		return command.NewExecuteError(GetAuditRecordErrorCode, fmt.Errorf("get audit record: %w", err))
	}

	command.WriteNillableResponse(rw, &AuditRecordResponse{Record: record}, logger)

	logutil.LogDebug(logger, CommandName, GetAuditRecordCommandMethod, "success",
		logutil.CreateKeyValueString(auditID, request.ID))

	return nil
}

// GetAuditRecords returns the audit records with the requested verdict.
func (c *Command) GetAuditRecords(rw io.Writer, req io.Reader) command.Error {
	var request AuditRecordsArgs

	if err := json.NewDecoder(req).Decode(&request); err != nil {
		logutil.LogInfo(logger, CommandName, GetAuditRecordsCommandMethod, err.Error())

		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	records, err := c.store.GetRecords(request.Verified)
	if err != nil {
		logutil.LogError(logger, CommandName, GetAuditRecordsCommandMethod, "get audit records: "+err.Error())

		return command.NewExecuteError(GetAuditRecordsErrorCode, fmt.Errorf("get audit records: %w", err))
	}

	command.WriteNillableResponse(rw, &AuditRecordsResponse{Records: records}, logger)

	logutil.LogDebug(logger, CommandName, GetAuditRecordsCommandMethod, "success")

	return nil
}
