/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package auditproof

import (
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

const identifiersField = "identifiers"

// ProofRequest is an Indy proof request as sent to the prover.
type ProofRequest map[string]interface{}

// Presentation is an Indy proof as returned by the prover.
type Presentation map[string]interface{}

// Identifier references the ledger artifacts one credential of a presentation was issued under.
type Identifier struct {
	SchemaID  string `json:"schema_id"`
	CredDefID string `json:"cred_def_id"`
	RevRegID  string `json:"rev_reg_id,omitempty"`
	Timestamp *int64 `json:"timestamp,omitempty"`
}

// Identifiers extracts the identifier list of a presentation.
func Identifiers(presentation Presentation) ([]Identifier, error) {
	raw, ok := presentation[identifiersField]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedPresentation, identifiersField)
	}

	list := reflect.ValueOf(raw)
	if list.Kind() != reflect.Slice && list.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %s is not a list", ErrMalformedPresentation, identifiersField)
	}

	identifiers := make([]Identifier, list.Len())

	for i := range identifiers {
		if err := decodeIdentifier(list.Index(i).Interface(), &identifiers[i]); err != nil {
			return nil, fmt.Errorf("%w: identifier %d: %v", ErrMalformedPresentation, i, err)
		}
	}

	return identifiers, nil
}

func decodeIdentifier(input interface{}, identifier *Identifier) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     identifier,
		DecodeHook: integralNumberHook,
	})
	if err != nil {
		return err
	}

	if err = decoder.Decode(input); err != nil {
		return err
	}

	if identifier.SchemaID == "" {
		return fmt.Errorf("schema_id is mandatory")
	}

	if identifier.CredDefID == "" {
		return fmt.Errorf("cred_def_id is mandatory")
	}

	return nil
}

// integralNumberHook refuses to truncate JSON numbers decoded into integer fields,
// so that 1000.9 never aliases the timestamp 1000.
func integralNumberHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.Int64 {
		return data, nil
	}

	var f float64

	switch from.Kind() { //nolint:exhaustive
	case reflect.Float32, reflect.Float64:
		f = reflect.ValueOf(data).Float()
	default:
		return data, nil
	}

	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%v is not an integral timestamp", data)
	}

	return data, nil
}
