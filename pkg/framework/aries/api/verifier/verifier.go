/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifier

import (
	"context"
	"encoding/json"
)

// ProofVerifier verifies an Indy proof against the ledger artifacts it was issued under.
// A false verdict with nil error means the proof is invalid, a non nil error means
// the verifier itself failed.
type ProofVerifier interface {
	VerifyPresentation(ctx context.Context,
		proofRequest, proof map[string]interface{},
		schemas, credDefs, revRegDefs map[string]json.RawMessage,
		revRegEntries map[string]map[int64]json.RawMessage,
	) (bool, error)
}
