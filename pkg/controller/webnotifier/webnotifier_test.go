/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webnotifier

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("New WebNotifier (populated)", func(t *testing.T) {
		n := New("/", []string{"http://localhost:8080"})
		require.NotNil(t, n)
		require.Equal(t, 2, len(n.notifiers))
		require.Equal(t, 1, len(n.handlers))
	})

	t.Run("New WebNotifier (nil)", func(t *testing.T) {
		n := New("", nil)
		require.NotNil(t, n)
		require.Equal(t, 2, len(n.notifiers))
		require.Equal(t, 1, len(n.handlers))
	})
}

func TestNotify(t *testing.T) {
	t.Run("unreachable webhook", func(t *testing.T) {
		n := New("/", []string{"http://localhost:1"}, WithWebhookRetries(0))
		require.NotNil(t, n)

		err := n.Notify(context.Background(), "example", []byte(`{}`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to post notification")
	})

	t.Run("empty topic", func(t *testing.T) {
		n := New("/", nil)

		err := n.Notify(context.Background(), "", []byte(`{}`))
		require.Error(t, err)
		require.Contains(t, err.Error(), emptyTopicErrMsg)
	})

	t.Run("no subscribers", func(t *testing.T) {
		n := New("/", nil)

		require.NoError(t, n.Notify(context.Background(), "example", []byte(`{}`)))
	})
}

func TestGetHandlers(t *testing.T) {
	n := New("/", []string{"http://localhost:8080"})
	require.NotNil(t, n)

	handlers := n.GetRESTHandlers()
	require.Equal(t, 1, len(handlers))
}

func TestPrepareTopicMessage(t *testing.T) {
	b, err := PrepareTopicMessage("auditproof", []byte(`{"verified":true}`))
	require.NoError(t, err)

	var msg topicMessage
	require.NoError(t, json.Unmarshal(b, &msg))
	require.NotEmpty(t, msg.ID)
	require.Equal(t, "auditproof", msg.Topic)
	require.JSONEq(t, `{"verified":true}`, string(msg.Message))
}
