/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package httpbinding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		v, err := New("https://verifier.example.com/verify", WithTimeout(time.Second), WithAuthToken("tk"))
		require.NoError(t, err)
		require.Equal(t, time.Second, v.client.Timeout)
		require.Equal(t, "Bearer tk", v.authToken)
	})

	t.Run("invalid url", func(t *testing.T) {
		v, err := New("::")
		require.Error(t, err)
		require.Contains(t, err.Error(), "base URL invalid")
		require.Nil(t, v)
	})
}

func TestVerifier_VerifyPresentation(t *testing.T) {
	var received map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		switch r.Header.Get("Authorization") {
		case "Bearer yes":
			fmt.Fprint(w, `{"verified":true}`)
		case "Bearer no":
			fmt.Fprint(w, `{"verified":false}`)
		case "Bearer empty":
			fmt.Fprint(w, `{}`)
		case "Bearer garbage":
			fmt.Fprint(w, `garbage`)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	verify := func(token string) (bool, error) {
		v, err := New(srv.URL, WithHTTPClient(srv.Client()), WithAuthToken(token))
		require.NoError(t, err)

		return v.VerifyPresentation(context.Background(),
			map[string]interface{}{"name": "proof"},
			map[string]interface{}{"identifiers": []interface{}{}},
			map[string]json.RawMessage{"S1": json.RawMessage(`{"id":"S1"}`)},
			map[string]json.RawMessage{"C1": json.RawMessage(`{"id":"C1"}`)},
			map[string]json.RawMessage{},
			map[string]map[int64]json.RawMessage{"R1": {1000: json.RawMessage(`{"id":"R1@1000"}`)}})
	}

	t.Run("verified", func(t *testing.T) {
		verified, err := verify("yes")
		require.NoError(t, err)
		require.True(t, verified)

		require.JSONEq(t, `{"name":"proof"}`, string(received["proof_request"]))
		require.JSONEq(t, `{"identifiers":[]}`, string(received["proof"]))
		require.JSONEq(t, `{"S1":{"id":"S1"}}`, string(received["schemas"]))
		require.JSONEq(t, `{"C1":{"id":"C1"}}`, string(received["credential_definitions"]))
		require.JSONEq(t, `{}`, string(received["rev_reg_defs"]))
		require.JSONEq(t, `{"R1":{"1000":{"id":"R1@1000"}}}`, string(received["rev_reg_entries"]))
	})

	t.Run("not verified", func(t *testing.T) {
		verified, err := verify("no")
		require.NoError(t, err)
		require.False(t, verified)
	})

	t.Run("missing verdict", func(t *testing.T) {
		_, err := verify("empty")
		require.Error(t, err)
		require.Contains(t, err.Error(), "without verdict")
	})

	t.Run("invalid response", func(t *testing.T) {
		_, err := verify("garbage")
		require.Error(t, err)
		require.Contains(t, err.Error(), "decode verifier response")
	})

	t.Run("error status", func(t *testing.T) {
		_, err := verify("unknown")
		require.Error(t, err)
		require.Contains(t, err.Error(), "verifier service returned [401]")
	})

	t.Run("unreachable", func(t *testing.T) {
		v, err := New("http://localhost:1/verify")
		require.NoError(t, err)

		_, err = v.VerifyPresentation(context.Background(), nil, nil, nil, nil, nil, nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "HTTP Post request failed")
	})
}
