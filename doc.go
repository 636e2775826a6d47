// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package xmpp implements the core of an XMPP client stream as defined in
// RFC 6120.
//
// A Stream consumes raw bytes read from a connection, incrementally matches
// them into a tree of typed nodes (see the stanza package), tracks the
// lifecycle of the stream, and routes every completed node to the signals in
// its Events field.
// It never blocks: reading from and writing to the network is the job of the
// Connection it is created with (see the transport package), and the caller
// drives the stream by calling Feed or HandleReadable whenever data is
// available.
//
// Be advised: This API is still unstable and is subject to change.
package xmpp // import "mellium.im/xmppcore"
