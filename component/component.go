// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package component implements the client side of XEP-0114: Jabber Component
// Protocol as a stream extension.
package component // import "mellium.im/xmppcore/component"

import (
	/* #nosec */
	"crypto/sha1"
	"encoding/hex"
	"errors"

	xmpp "mellium.im/xmppcore"
	"mellium.im/xmppcore/event"
	"mellium.im/xmppcore/internal/ns"
	"mellium.im/xmppcore/stanza"
	"mellium.im/xmppcore/stream"
)

// A list of namespaces used by this package, provided as a convenience.
const (
	NSAccept = ns.Component
)

// XEP is the number of the component protocol extension.
const XEP = "0114"

// Handshake is the kind of the handshake element.
// The component sends it with the hashed secret and the server answers with
// an empty one once the component is authenticated.
var Handshake = &stanza.Kind{
	Name:   "ComponentHandshake",
	Tag:    "handshake",
	Parent: stanza.Stream,
}

func init() {
	stanza.Register(Handshake)
}

// ErrNoStreamID is returned by Authenticate if the server has not sent a
// stream header with an id yet.
var ErrNoStreamID = errors.New("component: expected server stream to contain stream ID")

// Plugin adds the component protocol to a stream.
var Plugin = xmpp.Plugin{
	XEP: XEP,
	New: func(s *xmpp.Stream) xmpp.Extension {
		return New(s)
	},
}

// Events are the signals published by a Component.
type Events struct {
	// Success carries the handshake sent by the server once the component is
	// authenticated.
	Success *event.Signal[*stanza.Node]

	// Error carries stream errors, including those raised by an invalid
	// server header.
	Error *event.Signal[stream.Error]
}

// Component is the component protocol extension of one stream.
type Component struct {
	Events Events

	s         *xmpp.Stream
	handshake *stanza.Node
}

// New returns a component protocol extension for s.
// Most users will want to use Plugin instead.
func New(s *xmpp.Stream) *Component {
	return &Component{
		Events: Events{
			Success: event.New[*stanza.Node]("component.success", s.Logger()),
			Error:   event.New[stream.Error]("component.error", s.Logger()),
		},
		s: s,
	}
}

// From returns the component protocol extension of s or nil if s was not
// created with Plugin.
func From(s *xmpp.Stream) *Component {
	c, _ := s.Extension(XEP).(*Component)
	return c
}

// HandleNode satisfies xmpp.Extension.
func (c *Component) HandleNode(n *stanza.Node) error {
	if e, ok := stream.FromNode(n); ok {
		c.Events.Error.Publish(e)
		return nil
	}
	if !n.Is(Handshake) {
		return nil
	}
	c.handshake = n
	c.Events.Success.Publish(n)
	return nil
}

// IsAuthenticated reports whether the server acknowledged the handshake.
func (c *Component) IsAuthenticated() bool {
	return c.handshake != nil
}

// Open sends a component stream header addressed to domain.
// If tls is true a STARTTLS request follows the header.
func (c *Component) Open(domain string, tls bool) error {
	return c.s.SendHeader(stanza.NewComponentStream(domain, tls))
}

// Authenticate sends the handshake for secret.
// The handshake is the hex encoded SHA-1 hash of the stream id followed by the
// secret.
func (c *Component) Authenticate(secret string) error {
	id := c.s.ID()
	if id == "" {
		return ErrNoStreamID
	}
	return c.s.Send(Handshake.CreateText(Digest(id, secret)))
}

// Digest returns the handshake value for a stream id and secret.
func Digest(id, secret string) string {
	/* #nosec */
	h := sha1.New()

	// hash.Write never returns an error per the documentation.
	/* #nosec */
	_, _ = h.Write([]byte(id))
	/* #nosec */
	_, _ = h.Write([]byte(secret))
	return hex.EncodeToString(h.Sum(nil))
}
