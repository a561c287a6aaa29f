/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	ledgerapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/ledger"
	ledgerMocks "github.com/hyperledger/aries-auditproof-go/pkg/internal/gomocks/framework/aries/api/ledger"
	"github.com/hyperledger/aries-auditproof-go/pkg/ledger/mem"
)

func TestLedger_SharesReadsAcrossSessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inner := ledgerMocks.NewMockSession(ctrl)
	inner.EXPECT().GetSchema(gomock.Any(), "S1").Return(json.RawMessage(`{"id":"S1"}`), nil).Times(1)
	inner.EXPECT().GetCredentialDefinition(gomock.Any(), "C1").Return(json.RawMessage(`{"id":"C1"}`), nil).Times(1)
	inner.EXPECT().GetRevocationRegistryDefinition(gomock.Any(), "R1").
		Return(json.RawMessage(`{"id":"R1"}`), nil).Times(1)
	inner.EXPECT().GetRevocationRegistryEntry(gomock.Any(), "R1", int64(1000)).
		Return(json.RawMessage(`{"id":"R1@900"}`), int64(900), nil).Times(1)
	inner.EXPECT().Close().Return(nil).Times(2)

	next := ledgerMocks.NewMockLedger(ctrl)
	next.EXPECT().Open(gomock.Any()).Return(inner, nil).Times(2)

	l := New(next, WithSize(10), WithExpiration(time.Minute))

	for i := 0; i < 2; i++ {
		s, err := l.Open(context.Background())
		require.NoError(t, err)

		schema, err := s.GetSchema(context.Background(), "S1")
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"S1"}`, string(schema))

		credDef, err := s.GetCredentialDefinition(context.Background(), "C1")
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"C1"}`, string(credDef))

		revRegDef, err := s.GetRevocationRegistryDefinition(context.Background(), "R1")
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"R1"}`, string(revRegDef))

		entry, found, err := s.GetRevocationRegistryEntry(context.Background(), "R1", 1000)
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"R1@900"}`, string(entry))
		require.EqualValues(t, 900, found)

		require.NoError(t, s.Close())
	}

	hits, misses := l.Stats()
	require.EqualValues(t, 4, hits)
	require.EqualValues(t, 4, misses)
}

func TestLedger_DoesNotCacheFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inner := ledgerMocks.NewMockSession(ctrl)
	gomock.InOrder(
		inner.EXPECT().GetSchema(gomock.Any(), "S1").Return(nil, ledgerapi.ErrNotFound),
		inner.EXPECT().GetSchema(gomock.Any(), "S1").Return(json.RawMessage(`{"id":"S1"}`), nil),
	)
	inner.EXPECT().GetRevocationRegistryEntry(gomock.Any(), "R1", int64(5)).
		Return(nil, int64(0), errors.New("timeout"))

	next := ledgerMocks.NewMockLedger(ctrl)
	next.EXPECT().Open(gomock.Any()).Return(inner, nil)

	s, err := New(next).Open(context.Background())
	require.NoError(t, err)

	_, err = s.GetSchema(context.Background(), "S1")
	require.True(t, errors.Is(err, ledgerapi.ErrNotFound))

	schema, err := s.GetSchema(context.Background(), "S1")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"S1"}`, string(schema))

	_, _, err = s.GetRevocationRegistryEntry(context.Background(), "R1", 5)
	require.EqualError(t, err, "timeout")
}

func TestLedger_Purge(t *testing.T) {
	inner := mem.New()
	inner.PutSchema("S1", json.RawMessage(`{"v":1}`))

	l := New(inner)

	read := func() string {
		s, err := l.Open(context.Background())
		require.NoError(t, err)

		defer func() { require.NoError(t, s.Close()) }()

		schema, err := s.GetSchema(context.Background(), "S1")
		require.NoError(t, err)

		return string(schema)
	}

	require.JSONEq(t, `{"v":1}`, read())

	inner.PutSchema("S1", json.RawMessage(`{"v":2}`))
	require.JSONEq(t, `{"v":1}`, read())

	l.Purge()
	require.JSONEq(t, `{"v":2}`, read())

	opened, closed := inner.Sessions()
	require.Equal(t, 3, opened)
	require.Equal(t, 3, closed)
}

func TestLedger_OpenError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	next := ledgerMocks.NewMockLedger(ctrl)
	next.EXPECT().Open(gomock.Any()).Return(nil, errors.New("pool closed"))

	s, err := New(next).Open(context.Background())
	require.EqualError(t, err, "pool closed")
	require.Nil(t, s)
}
