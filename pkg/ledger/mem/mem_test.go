/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mem

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	ledgerapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/ledger"
)

func TestLedger_Artifacts(t *testing.T) {
	l := New()
	l.PutSchema("S1", json.RawMessage(`{"name":"s1"}`))
	l.PutCredentialDefinition("C1", json.RawMessage(`{"tag":"c1"}`))
	l.PutRevocationRegistryDefinition("R1", json.RawMessage(`{"id":"R1"}`))

	session, err := l.Open(context.Background())
	require.NoError(t, err)

	defer func() { require.NoError(t, session.Close()) }()

	t.Run("found", func(t *testing.T) {
		schema, err := session.GetSchema(context.Background(), "S1")
		require.NoError(t, err)
		require.JSONEq(t, `{"name":"s1"}`, string(schema))

		credDef, err := session.GetCredentialDefinition(context.Background(), "C1")
		require.NoError(t, err)
		require.JSONEq(t, `{"tag":"c1"}`, string(credDef))

		revRegDef, err := session.GetRevocationRegistryDefinition(context.Background(), "R1")
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"R1"}`, string(revRegDef))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := session.GetSchema(context.Background(), "S2")
		require.True(t, errors.Is(err, ledgerapi.ErrNotFound))

		_, err = session.GetCredentialDefinition(context.Background(), "C2")
		require.True(t, errors.Is(err, ledgerapi.ErrNotFound))

		_, err = session.GetRevocationRegistryDefinition(context.Background(), "R2")
		require.True(t, errors.Is(err, ledgerapi.ErrNotFound))
	})
}

func TestLedger_RevocationRegistryEntry(t *testing.T) {
	l := New()
	l.PutRevocationRegistryEntry("R1", 2000, json.RawMessage(`{"v":2}`))
	l.PutRevocationRegistryEntry("R1", 1000, json.RawMessage(`{"v":1}`))
	l.PutRevocationRegistryEntry("R1", 3000, json.RawMessage(`{"v":3}`))

	session, err := l.Open(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name      string
		timestamp int64
		entry     string
		found     int64
	}{
		{name: "exact", timestamp: 2000, entry: `{"v":2}`, found: 2000},
		{name: "between", timestamp: 2500, entry: `{"v":2}`, found: 2000},
		{name: "after last", timestamp: 9000, entry: `{"v":3}`, found: 3000},
		{name: "first", timestamp: 1000, entry: `{"v":1}`, found: 1000},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			entry, found, err := session.GetRevocationRegistryEntry(context.Background(), "R1", tc.timestamp)
			require.NoError(t, err)
			require.JSONEq(t, tc.entry, string(entry))
			require.Equal(t, tc.found, found)
		})
	}

	t.Run("before first", func(t *testing.T) {
		_, _, err := session.GetRevocationRegistryEntry(context.Background(), "R1", 999)
		require.True(t, errors.Is(err, ledgerapi.ErrNotFound))
	})

	t.Run("unknown registry", func(t *testing.T) {
		_, _, err := session.GetRevocationRegistryEntry(context.Background(), "R2", 1000)
		require.True(t, errors.Is(err, ledgerapi.ErrNotFound))
	})

	t.Run("overwrite keeps timestamps unique", func(t *testing.T) {
		l.PutRevocationRegistryEntry("R1", 2000, json.RawMessage(`{"v":22}`))
		require.Len(t, l.entries["R1"].timestamps, 3)

		entry, _, err := session.GetRevocationRegistryEntry(context.Background(), "R1", 2000)
		require.NoError(t, err)
		require.JSONEq(t, `{"v":22}`, string(entry))
	})
}

func TestLedger_Sessions(t *testing.T) {
	l := New()

	session, err := l.Open(context.Background())
	require.NoError(t, err)

	opened, closed := l.Sessions()
	require.Equal(t, 1, opened)
	require.Equal(t, 0, closed)

	require.NoError(t, session.Close())
	require.NoError(t, session.Close())

	opened, closed = l.Sessions()
	require.Equal(t, 1, opened)
	require.Equal(t, 1, closed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = l.Open(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
