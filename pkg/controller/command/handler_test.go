/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package command

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	execErr := NewExecuteError(UnknownStatus, errors.New("exec failed"))

	h := NewHandler("auditproof", "VerifyPresentation", func(rw io.Writer, req io.Reader) Error {
		return execErr
	})

	require.Equal(t, "auditproof", h.Name())
	require.Equal(t, "VerifyPresentation", h.Method())
	require.Equal(t, execErr, h.Handle()(&bytes.Buffer{}, nil))
}
