// Copyright 2014 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package jid implements XMPP addresses (historically called "Jabber ID's" or
// "JID's") as described in RFC 7622.
//
// A JID has the form localpart@domainpart/resourcepart where only the
// domainpart is required.
// JIDs are immutable values; every method that changes a part returns a new
// JID.
package jid // import "mellium.im/xmppcore/jid"
