// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"errors"
)

var (
	// ErrMissingJID is returned when a stanza that requires a from address is
	// sent before a JID has been bound and no address was provided.
	ErrMissingJID = errors.New("xmpp: no from address and no bound JID")

	// ErrNotConnected is returned when data is sent on a stream that has no
	// connection.
	ErrNotConnected = errors.New("xmpp: stream has no connection")
)

// SASLError is published when authentication fails.
// Condition is the defined failure condition sent by the server, if any.
type SASLError struct {
	Condition string
	Text      string
	Err       error
}

// Error satisfies the error interface.
func (e *SASLError) Error() string {
	msg := "xmpp: sasl authentication failed"
	if e.Condition != "" {
		msg += ": " + e.Condition
	}
	if e.Text != "" {
		msg += " (" + e.Text + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the local error that caused the failure, if any.
func (e *SASLError) Unwrap() error {
	return e.Err
}
