/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package command

// NewHandler returns the handler running exec for method of the named controller command.
func NewHandler(name, method string, exec Exec) Handler {
	return &handler{name: name, method: method, exec: exec}
}

type handler struct {
	name   string
	method string
	exec   Exec
}

func (h *handler) Name() string {
	return h.name
}

func (h *handler) Method() string {
	return h.method
}

func (h *handler) Handle() Exec {
	return h.exec
}
