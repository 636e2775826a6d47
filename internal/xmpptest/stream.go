// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpptest

import (
	"io"

	"github.com/sirupsen/logrus"

	xmpp "mellium.im/xmppcore"
)

// ClientHeader is the header of a stream opened by a server for the client
// test@example.net.
const ClientHeader = `<stream:stream from="example.net" to="test@example.net" id="123" version="1.0" xml:lang="en" xmlns="jabber:client" xmlns:stream="http://etherx.jabber.org/streams">`

// Features is a stream features element offering SCRAM-SHA-1 and resource
// binding.
const Features = `<stream:features><mechanisms xmlns="urn:ietf:params:xml:ns:xmpp-sasl"><mechanism>SCRAM-SHA-1</mechanism></mechanisms><bind xmlns="urn:ietf:params:xml:ns:xmpp-bind"/></stream:features>`

// QuietLogger returns a logger that discards everything written to it.
func QuietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// NewStream returns a stream that writes to a new recording connection and
// logs nowhere.
// Options are applied after the logger so that tests can replace it.
func NewStream(opts ...xmpp.Option) (*xmpp.Stream, *Conn) {
	conn := &Conn{}
	opts = append([]xmpp.Option{xmpp.Logger(QuietLogger())}, opts...)
	return xmpp.New(conn, opts...), conn
}

// FeedChunks feeds data to s in chunks of at most size bytes.
func FeedChunks(s *xmpp.Stream, data string, size int) {
	if size <= 0 {
		size = len(data)
	}
	for len(data) > 0 {
		n := size
		if n > len(data) {
			n = len(data)
		}
		s.FeedString(data[:n])
		data = data[n:]
	}
}

// OpenStream feeds ClientHeader to s.
func OpenStream(s *xmpp.Stream) {
	s.FeedString(ClientHeader)
}
