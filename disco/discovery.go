// Copyright 2021 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package disco

import (
	xmpp "mellium.im/xmppcore"
	"mellium.im/xmppcore/event"
	"mellium.im/xmppcore/internal/attr"
	"mellium.im/xmppcore/jid"
	"mellium.im/xmppcore/stanza"
)

// XEP is the number of the service discovery extension.
const XEP = "0030"

// Plugin adds service discovery to a stream.
var Plugin = xmpp.Plugin{
	XEP: XEP,
	New: func(s *xmpp.Stream) xmpp.Extension {
		return New(s)
	},
}

// Events are the signals published by a Discovery.
type Events struct {
	// QueryInfo carries every disco#info query payload received.
	QueryInfo *event.Signal[*stanza.Node]

	// QueryItems carries every disco#items query payload received.
	QueryItems *event.Signal[*stanza.Node]
}

// Discovery is the service discovery extension of one stream.
// A new Discovery is created every time the stream is reset, so
// subscriptions must be made again after a reset.
type Discovery struct {
	Events Events

	s *xmpp.Stream
}

// New returns a service discovery extension for s.
// Most users will want to use Plugin instead.
func New(s *xmpp.Stream) *Discovery {
	log := s.Logger()
	return &Discovery{
		Events: Events{
			QueryInfo:  event.New[*stanza.Node]("disco.query_info", log),
			QueryItems: event.New[*stanza.Node]("disco.query_items", log),
		},
		s: s,
	}
}

// From returns the service discovery extension of s or nil if s was not
// created with Plugin.
func From(s *xmpp.Stream) *Discovery {
	d, _ := s.Extension(XEP).(*Discovery)
	return d
}

// HandleNode satisfies xmpp.Extension.
func (d *Discovery) HandleNode(n *stanza.Node) error {
	switch n.Kind() {
	case QueryInfo:
		d.Events.QueryInfo.Publish(n)
	case QueryItems:
		d.Events.QueryItems.Publish(n)
	}
	return nil
}

// QueryInfo asks an entity for its identities and features.
// If to is the zero JID the domain of the bound JID is queried.
// Attrs, such as a node, are set on the query payload.
// The id of the request is returned.
func (d *Discovery) QueryInfo(to jid.JID, attrs ...stanza.Attr) (string, error) {
	return d.query(QueryInfo, to, attrs)
}

// QueryItems asks an entity for its items.
// It is like QueryInfo in every other respect.
func (d *Discovery) QueryItems(to jid.JID, attrs ...stanza.Attr) (string, error) {
	return d.query(QueryItems, to, attrs)
}

func (d *Discovery) query(k *stanza.Kind, to jid.JID, attrs []stanza.Attr) (string, error) {
	if to.IsZero() {
		to = d.s.BoundJID().Domain()
	}
	if to.IsZero() {
		return "", xmpp.ErrMissingJID
	}
	id := attr.RandomID()
	iq := stanza.IQ.Create(stanza.Pairs(
		"type", "get",
		"to", to.Bare().String(),
		"id", id,
	)...)
	if err := iq.Append(k.Create(attrs...)); err != nil {
		return "", err
	}
	return id, d.s.Send(iq)
}
