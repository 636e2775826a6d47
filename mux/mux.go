// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package mux implements an XMPP multiplexer.
package mux // import "mellium.im/xmppcore/mux"

import (
	"github.com/sirupsen/logrus"

	"mellium.im/xmppcore/stanza"
)

// Handler responds to a node that has been read from a stream.
type Handler interface {
	HandleNode(n *stanza.Node) error
}

// The HandlerFunc type is an adapter to allow the use of ordinary functions as
// handlers. If f is a function with the appropriate signature, HandlerFunc(f)
// is a Handler that calls f.
type HandlerFunc func(n *stanza.Node) error

// HandleNode calls f(n).
func (f HandlerFunc) HandleNode(n *stanza.Node) error {
	return f(n)
}

var nopHandler HandlerFunc = func(*stanza.Node) error { return nil }

// ServeMux is an XMPP stream multiplexer.
// It matches the kind of each node against a table of registered kinds and
// calls the handler for the kind.
//
// Nodes of the Unknown kind are logged and dropped.
// Error kinds without a handler of their own are passed to the error handler,
// unless they are the condition of an enclosing error in which case the
// enclosing error has already been reported.
// Every node of a known kind is then passed to the handler registered with
// Any, if one exists.
type ServeMux struct {
	patterns map[*stanza.Kind]Handler
	errors   Handler
	any      Handler
	log      logrus.FieldLogger
}

// New allocates and returns a new ServeMux.
func New(opt ...Option) *ServeMux {
	m := &ServeMux{}
	for _, o := range opt {
		o(m)
	}
	if m.log == nil {
		m.log = logrus.StandardLogger()
	}
	return m
}

// Handler returns the handler to use for a node of kind k.
// If no handler exists for the kind a handler that does nothing is returned
// (h is always non-nil) and ok will be false.
func (m *ServeMux) Handler(k *stanza.Kind) (h Handler, ok bool) {
	h = m.patterns[k]
	if h != nil {
		return h, true
	}
	if k != nil && k.Error && m.errors != nil && (k.Parent == nil || !k.Parent.Error) {
		return m.errors, true
	}
	return nopHandler, false
}

// HandleNode dispatches the node to the handler registered for its kind.
// It is the same as Route.
func (m *ServeMux) HandleNode(n *stanza.Node) error {
	return m.Route(n)
}

// Route dispatches n to the handler for its kind and then to the handler
// registered with Any.
// The first error returned by a handler is returned after all handlers have
// run.
func (m *ServeMux) Route(n *stanza.Node) error {
	if n.Kind() == stanza.Unknown {
		m.log.WithField("tag", n.Tag()).Warnf("no model defined for %s", n)
		return nil
	}

	h, _ := m.Handler(n.Kind())
	err := h.HandleNode(n)
	if m.any != nil {
		if anyErr := m.any.HandleNode(n); err == nil {
			err = anyErr
		}
	}
	return err
}

// Option configures a ServeMux.
type Option func(m *ServeMux)

// Handle returns an option that matches on the provided kind.
// If a handler already exists for k when the option is applied, the option
// panics.
func Handle(k *stanza.Kind, h Handler) Option {
	return func(m *ServeMux) {
		if h == nil {
			panic("mux: nil handler")
		}
		if k == nil {
			panic("mux: nil kind")
		}
		if _, ok := m.patterns[k]; ok {
			panic("mux: multiple registrations for " + k.String())
		}
		if m.patterns == nil {
			m.patterns = make(map[*stanza.Kind]Handler)
		}
		m.patterns[k] = h
	}
}

// HandleFunc returns an option that matches on the provided kind.
func HandleFunc(k *stanza.Kind, h HandlerFunc) Option {
	return Handle(k, h)
}

// Errors returns an option that handles nodes of any error kind that does not
// have a handler of its own.
func Errors(h Handler) Option {
	return func(m *ServeMux) {
		if h == nil {
			panic("mux: nil error handler")
		}
		m.errors = h
	}
}

// Any returns an option that passes every node of a known kind to h after the
// handler for the kind has run.
func Any(h Handler) Option {
	return func(m *ServeMux) {
		if h == nil {
			panic("mux: nil handler")
		}
		m.any = h
	}
}

// Logger returns an option that sets the logger used to report unknown nodes.
func Logger(l logrus.FieldLogger) Option {
	return func(m *ServeMux) {
		m.log = l
	}
}
