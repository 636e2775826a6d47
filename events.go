// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"github.com/sirupsen/logrus"

	"mellium.im/xmppcore/event"
	"mellium.im/xmppcore/jid"
	"mellium.im/xmppcore/stanza"
)

// Events are the signals published by a stream.
// Subscriptions survive a Reset of the stream.
type Events struct {
	// Feed carries every non-empty chunk of data passed to the stream.
	Feed *event.Signal[string]

	// Open carries the header of every stream that is opened.
	Open *event.Signal[*stanza.Node]

	// Closed carries the last stream header when the stream is closed by the
	// peer.
	Closed *event.Signal[*stanza.Node]

	// Error carries stream errors and other error nodes.
	Error *event.Signal[*stanza.Node]

	// UnhandledXML carries input that could not be parsed.
	UnhandledXML *event.Signal[string]

	// Node carries every completed node of a known kind after it has been
	// routed.
	Node *event.Signal[*stanza.Node]

	IQGet    *event.Signal[*stanza.Node]
	IQSet    *event.Signal[*stanza.Node]
	IQResult *event.Signal[*stanza.Node]
	IQError  *event.Signal[*stanza.Node]
	Message  *event.Signal[*stanza.Node]
	Presence *event.Signal[*stanza.Node]

	StartTLS   *event.Signal[*stanza.Node]
	TLSProceed *event.Signal[*stanza.Node]

	SASLChallenge *event.Signal[*stanza.Node]
	SASLSuccess   *event.Signal[*stanza.Node]
	SASLFailure   *event.Signal[*stanza.Node]
	SASLResponse  *event.Signal[*stanza.Node]
	SASLSupport   *event.Signal[*stanza.Node]

	BindSupport      *event.Signal[*stanza.Node]
	UserRegistration *event.Signal[*stanza.Node]

	// BoundJID carries the address assigned by the server during resource
	// binding.
	BoundJID *event.Signal[jid.JID]
}

func newEvents(log logrus.FieldLogger) Events {
	node := func(name string) *event.Signal[*stanza.Node] {
		return event.New[*stanza.Node](name, log)
	}
	return Events{
		Feed:             event.New[string]("feed", log),
		Open:             node("open"),
		Closed:           node("closed"),
		Error:            node("error"),
		UnhandledXML:     event.New[string]("unhandledXML", log),
		Node:             node("node"),
		IQGet:            node("iqGet"),
		IQSet:            node("iqSet"),
		IQResult:         node("iqResult"),
		IQError:          node("iqError"),
		Message:          node("message"),
		Presence:         node("presence"),
		StartTLS:         node("startTLS"),
		TLSProceed:       node("tlsProceed"),
		SASLChallenge:    node("saslChallenge"),
		SASLSuccess:      node("saslSuccess"),
		SASLFailure:      node("saslFailure"),
		SASLResponse:     node("saslResponse"),
		SASLSupport:      node("saslSupport"),
		BindSupport:      node("bindSupport"),
		UserRegistration: node("userRegistration"),
		BoundJID:         event.New[jid.JID]("boundJID", log),
	}
}
