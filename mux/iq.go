// Copyright 2020 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package mux

import (
	"github.com/sirupsen/logrus"

	"mellium.im/xmppcore/stanza"
)

// IQ types.
const (
	GetIQ    = "get"
	SetIQ    = "set"
	ResultIQ = "result"
	ErrorIQ  = "error"
)

// IQMux routes IQ stanzas by their type attribute.
// Nil handlers ignore IQs of their type.
// IQs with any other type are logged and dropped.
type IQMux struct {
	Get    Handler
	Set    Handler
	Result Handler
	Error  Handler

	// Log is used to report IQs with an unknown type.
	// If nil, the logrus standard logger is used.
	Log logrus.FieldLogger
}

// IQ returns an IQMux that calls the provided handlers.
func IQ(get, set, result, errh Handler) *IQMux {
	return &IQMux{
		Get:    get,
		Set:    set,
		Result: result,
		Error:  errh,
	}
}

// Handler returns the handler for IQs of type typ.
// If typ is not a known IQ type ok will be false.
func (m *IQMux) Handler(typ string) (h Handler, ok bool) {
	switch typ {
	case GetIQ:
		h = m.Get
	case SetIQ:
		h = m.Set
	case ResultIQ:
		h = m.Result
	case ErrorIQ:
		h = m.Error
	default:
		return nopHandler, false
	}
	if h == nil {
		return nopHandler, true
	}
	return h, true
}

// HandleNode dispatches the IQ to the handler for its type.
func (m *IQMux) HandleNode(n *stanza.Node) error {
	h, ok := m.Handler(n.Type())
	if !ok {
		log := m.Log
		if log == nil {
			log = logrus.StandardLogger()
		}
		log.WithFields(logrus.Fields{
			"id":   n.ID(),
			"type": n.Type(),
		}).Warn("mux: iq with unknown type")
		return nil
	}
	return h.HandleNode(n)
}
