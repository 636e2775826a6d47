// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"mellium.im/xmppcore/event"
	"mellium.im/xmppcore/internal/attr"
	"mellium.im/xmppcore/jid"
	"mellium.im/xmppcore/mux"
	"mellium.im/xmppcore/stanza"
	"mellium.im/xmppcore/stream"
	"mellium.im/xmppcore/transport"
)

const closeStream = "</stream:stream>"

// Stream is one XMPP stream.
//
// Streams are driven by a single caller and are not safe for concurrent use.
type Stream struct {
	// Events are the signals published while data is fed to the stream.
	Events Events

	conn    Connection
	log     logrus.FieldLogger
	debug   bool
	maxText int
	maxTag  int
	lang    language.Tag
	plugins []Plugin
	router  *mux.ServeMux

	extensions map[string]Extension
	extSignal  *event.Signal[*stanza.Node]

	state    State
	node     *stanza.Node
	info     stream.Info
	stack    []*stanza.Node
	pending  string
	boundJID jid.JID
	sasl     bool
	resource string
}

// New returns a stream that writes to conn.
// If conn is nil the stream can only be fed data manually and every attempt to
// send returns ErrNotConnected.
func New(conn Connection, opts ...Option) *Stream {
	s := &Stream{
		conn:    conn,
		maxText: DefaultMaxTextLength,
		maxTag:  DefaultMaxTagLength,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	s.Events = newEvents(s.log)
	s.router = s.newRouter()
	if s.debug {
		setDebugLevel(s.log)
		s.Events.Feed.SubscribeFunc(func(data string) error {
			s.log.WithField("data", data).Debug("xmpp: recv")
			return nil
		})
		s.Events.Node.SubscribeFunc(func(n *stanza.Node) error {
			s.log.WithField("kind", n.Kind().String()).Debug("xmpp: routed node")
			return nil
		})
	}
	if n, ok := conn.(Notifier); ok {
		n.OnReadyToRead(func() {
			if err := s.HandleReadable(); err != nil {
				s.log.WithError(err).Warn("xmpp: error reading from connection")
			}
		})
		n.OnReadyToWrite(s.HandleWritable)
	}
	s.Reset()
	return s
}

// State returns the current lifecycle state of the stream.
func (s *Stream) State() State {
	return s.state
}

// SetState forces the stream into state st.
// If st is not a defined state an *InvalidStateError is returned and the state
// is not changed.
func (s *Stream) SetState(st State) error {
	if !st.valid() {
		return &InvalidStateError{State: st}
	}
	s.setState(st)
	return nil
}

func (s *Stream) setState(st State) {
	if s.state == st {
		return
	}
	s.log.WithFields(logrus.Fields{
		"from": s.state.String(),
		"to":   st.String(),
	}).Debug("xmpp: state change")
	s.state = st
}

// Reset returns the stream to the Idle state and discards everything learned
// about the current stream: the bound JID, the result of SASL negotiation, any
// buffered input, the stream header and its metadata, and the extension instances.
// A new default resource name is generated.
// Subscriptions to the stream's signals are kept.
func (s *Stream) Reset() {
	s.state = Idle
	s.node = nil
	s.info = stream.Info{}
	s.stack = nil
	s.pending = ""
	s.boundJID = jid.JID{}
	s.sasl = false
	s.resource = attr.Resource()
	s.loadExtensions()
}

// Close sends the closing stream tag, disconnects the connection if disconnect
// is true, and resets the stream.
// The connection is detached from the stream after the closing tag is sent.
func (s *Stream) Close(disconnect bool) error {
	if s.conn == nil {
		s.Reset()
		return ErrNotConnected
	}
	conn := s.conn
	err := conn.Send([]byte(closeStream))
	if disconnect {
		if dErr := conn.Disconnect(); err == nil {
			err = dErr
		}
	}
	s.Reset()
	s.conn = nil
	return err
}

// HandleReadable receives one chunk of data from the connection and feeds it
// to the stream.
// It does nothing if the connection has no data waiting.
func (s *Stream) HandleReadable() error {
	if s.conn == nil {
		return ErrNotConnected
	}
	p, err := s.conn.Receive()
	switch {
	case errors.Is(err, transport.ErrEmpty):
		return nil
	case err != nil:
		return err
	}
	s.Feed(p)
	return nil
}

// HandleWritable moves an open or authenticated stream into the Ready state.
// It is called whenever the connection can be written to.
func (s *Stream) HandleWritable() {
	switch s.state {
	case Open, Authenticated, Ready:
		s.setState(Ready)
	}
}

// ID returns the id attribute of the current stream header.
func (s *Stream) ID() string {
	if s.node == nil {
		return ""
	}
	return s.node.StreamID()
}

// Info returns the metadata of the current stream header.
// It is the zero value if no stream has been opened.
func (s *Stream) Info() stream.Info {
	return s.info
}

// StreamNode returns the header of the current stream or nil if no stream has
// been opened.
func (s *Stream) StreamNode() *stanza.Node {
	return s.node
}

// BoundJID returns the address assigned by the server during resource binding.
func (s *Stream) BoundJID() jid.JID {
	return s.boundJID
}

// HasGoneThroughSASL reports whether SASL authentication succeeded since the
// stream was last reset.
func (s *Stream) HasGoneThroughSASL() bool {
	return s.sasl
}

// ResourceName returns the resource that is requested when binding.
func (s *Stream) ResourceName() string {
	return s.resource
}

// Logger returns the logger used by the stream.
func (s *Stream) Logger() logrus.FieldLogger {
	return s.log
}
