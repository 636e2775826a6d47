// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package ping implements XEP-0199: XMPP Ping as a stream extension.
//
// Streams created with Plugin answer every ping request they receive.
package ping // import "mellium.im/xmppcore/ping"

import (
	xmpp "mellium.im/xmppcore"
	"mellium.im/xmppcore/event"
	"mellium.im/xmppcore/internal/attr"
	"mellium.im/xmppcore/jid"
	"mellium.im/xmppcore/mux"
	"mellium.im/xmppcore/stanza"
)

// NS is the XML namespace used by XMPP pings. It is provided as a convenience.
const NS = `urn:xmpp:ping`

// XEP is the number of the ping extension.
const XEP = "0199"

// Ping is the kind of the ping payload.
var Ping = &stanza.Kind{
	Name:   "Ping",
	Tag:    "ping",
	Space:  NS,
	Single: true,
	Parent: stanza.IQ,
}

func init() {
	stanza.Register(Ping)
}

// Plugin adds ping support to a stream.
var Plugin = xmpp.Plugin{
	XEP: XEP,
	New: func(s *xmpp.Stream) xmpp.Extension {
		return New(s)
	},
}

// Pinger is the ping extension of one stream.
type Pinger struct {
	// Received carries every ping request after it has been answered.
	Received *event.Signal[*stanza.Node]

	s  *xmpp.Stream
	iq *mux.IQMux
}

// New returns a ping extension for s.
// Most users will want to use Plugin instead.
func New(s *xmpp.Stream) *Pinger {
	p := &Pinger{
		Received: event.New[*stanza.Node]("ping.received", s.Logger()),
		s:        s,
	}
	p.iq = mux.IQ(mux.HandlerFunc(p.pong), nil, nil, nil)
	p.iq.Log = s.Logger()
	return p
}

// From returns the ping extension of s or nil if s was not created with
// Plugin.
func From(s *xmpp.Stream) *Pinger {
	p, _ := s.Extension(XEP).(*Pinger)
	return p
}

// HandleNode satisfies xmpp.Extension.
func (p *Pinger) HandleNode(n *stanza.Node) error {
	if !n.Is(stanza.IQ) || n.Child(Ping) == nil {
		return nil
	}
	return p.iq.HandleNode(n)
}

func (p *Pinger) pong(iq *stanza.Node) error {
	attrs := stanza.Pairs("type", mux.ResultIQ, "id", iq.ID())
	if from := iq.From(); from != "" {
		attrs = append(attrs, stanza.Attr{Name: "to", Value: from})
	}
	if err := p.s.Send(stanza.IQ.Create(attrs...)); err != nil {
		return err
	}
	p.Received.Publish(iq)
	return nil
}

// Send pings to and returns the id of the request.
// If to is the zero JID the domain of the bound JID is pinged.
func (p *Pinger) Send(to jid.JID) (string, error) {
	if to.IsZero() {
		to = p.s.BoundJID().Domain()
	}
	if to.IsZero() {
		return "", xmpp.ErrMissingJID
	}
	id := attr.RandomID()
	iq := stanza.IQ.Create(stanza.Pairs(
		"type", mux.GetIQ,
		"to", to.String(),
		"id", id,
	)...)
	if err := iq.Append(Ping.Create()); err != nil {
		return "", err
	}
	return id, p.s.Send(iq)
}
