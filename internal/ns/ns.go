// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package ns provides namespace constants that are used by the xmppcore
// package and its sub-packages.
package ns // import "mellium.im/xmppcore/internal/ns"

// List of commonly used namespaces.
const (
	Bind          = "urn:ietf:params:xml:ns:xmpp-bind"
	Caps          = "http://jabber.org/protocol/caps"
	ChatStates    = "http://jabber.org/protocol/chatstates"
	Client        = "jabber:client"
	Component     = "jabber:component:accept"
	Delay         = "urn:xmpp:delay"
	DiscoInfo     = "http://jabber.org/protocol/disco#info"
	DiscoItems    = "http://jabber.org/protocol/disco#items"
	LegacyDelay   = "jabber:x:delay"
	Register      = "http://jabber.org/features/iq-register"
	Roster        = "jabber:iq:roster"
	RosterVersion = "urn:xmpp:features:rosterver"
	SASL          = "urn:ietf:params:xml:ns:xmpp-sasl"
	Server        = "jabber:server"
	Session       = "urn:ietf:params:xml:ns:xmpp-session"
	StanzaErrors  = "urn:ietf:params:xml:ns:xmpp-stanzas"
	StartTLS      = "urn:ietf:params:xml:ns:xmpp-tls"
	Stream        = "http://etherx.jabber.org/streams"
	StreamErrors  = "urn:ietf:params:xml:ns:xmpp-streams"
	VCard         = "vcard-temp"
	VCardUpdate   = "vcard-temp:x:update"
	XML           = "http://www.w3.org/XML/1998/namespace"
)
