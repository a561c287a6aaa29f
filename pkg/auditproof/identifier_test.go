/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package auditproof

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentifiers(t *testing.T) {
	t.Run("decodes JSON presentation", func(t *testing.T) {
		var presentation Presentation

		require.NoError(t, json.Unmarshal([]byte(`{
			"proof": {},
			"identifiers": [
				{"schema_id": "S1", "cred_def_id": "C1"},
				{"schema_id": "S1", "cred_def_id": "C2", "rev_reg_id": "R1", "timestamp": 1000},
				{"schema_id": "S2", "cred_def_id": "C3", "rev_reg_id": null, "timestamp": null}
			]
		}`), &presentation))

		identifiers, err := Identifiers(presentation)
		require.NoError(t, err)
		require.Len(t, identifiers, 3)

		require.Equal(t, Identifier{SchemaID: "S1", CredDefID: "C1"}, identifiers[0])
		require.Equal(t, "R1", identifiers[1].RevRegID)
		require.NotNil(t, identifiers[1].Timestamp)
		require.Equal(t, int64(1000), *identifiers[1].Timestamp)
		require.Empty(t, identifiers[2].RevRegID)
		require.Nil(t, identifiers[2].Timestamp)
	})

	t.Run("decodes typed identifier list", func(t *testing.T) {
		identifiers, err := Identifiers(Presentation{
			"identifiers": []map[string]interface{}{
				{"schema_id": "S1", "cred_def_id": "C1", "timestamp": int64(0)},
			},
		})
		require.NoError(t, err)
		require.Len(t, identifiers, 1)
		require.NotNil(t, identifiers[0].Timestamp)
		require.Zero(t, *identifiers[0].Timestamp)
	})

	t.Run("empty list", func(t *testing.T) {
		identifiers, err := Identifiers(Presentation{"identifiers": []interface{}{}})
		require.NoError(t, err)
		require.Empty(t, identifiers)
	})

	malformed := []struct {
		name         string
		presentation Presentation
		errMsg       string
	}{
		{name: "missing identifiers", presentation: Presentation{"proof": map[string]interface{}{}}, errMsg: "missing"},
		{name: "null identifiers", presentation: Presentation{"identifiers": nil}, errMsg: "missing"},
		{name: "identifiers not a list", presentation: Presentation{"identifiers": "S1"}, errMsg: "not a list"},
		{name: "identifiers is an object", presentation: Presentation{
			"identifiers": map[string]interface{}{"schema_id": "S1"},
		}, errMsg: "not a list"},
		{name: "identifier not an object", presentation: Presentation{
			"identifiers": []interface{}{"S1"},
		}, errMsg: "identifier 0"},
		{name: "missing schema id", presentation: Presentation{
			"identifiers": []interface{}{map[string]interface{}{"cred_def_id": "C1"}},
		}, errMsg: "schema_id is mandatory"},
		{name: "missing cred def id", presentation: Presentation{
			"identifiers": []interface{}{
				map[string]interface{}{"schema_id": "S1", "cred_def_id": "C1"},
				map[string]interface{}{"schema_id": "S1"},
			},
		}, errMsg: "identifier 1: cred_def_id is mandatory"},
		{name: "timestamp not a number", presentation: Presentation{
			"identifiers": []interface{}{map[string]interface{}{
				"schema_id": "S1", "cred_def_id": "C1", "rev_reg_id": "R1", "timestamp": "yesterday",
			}},
		}, errMsg: "identifier 0"},
		{name: "fractional timestamp", presentation: Presentation{
			"identifiers": []interface{}{map[string]interface{}{
				"schema_id": "S1", "cred_def_id": "C1", "rev_reg_id": "R1", "timestamp": 1000.9,
			}},
		}, errMsg: "1000.9 is not an integral timestamp"},
		{name: "timestamp out of range", presentation: Presentation{
			"identifiers": []interface{}{map[string]interface{}{
				"schema_id": "S1", "cred_def_id": "C1", "rev_reg_id": "R1", "timestamp": 1e19,
			}},
		}, errMsg: "not an integral timestamp"},
	}

	for _, tc := range malformed {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			identifiers, err := Identifiers(tc.presentation)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrMalformedPresentation))
			require.Contains(t, err.Error(), tc.errMsg)
			require.Nil(t, identifiers)
		})
	}
}
