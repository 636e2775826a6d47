// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"strings"

	"mellium.im/xmppcore/event"
	"mellium.im/xmppcore/jid"
	"mellium.im/xmppcore/mux"
	"mellium.im/xmppcore/stanza"
)

func publish(sig *event.Signal[*stanza.Node]) mux.HandlerFunc {
	return func(n *stanza.Node) error {
		sig.Publish(n)
		return nil
	}
}

func (s *Stream) newRouter() *mux.ServeMux {
	ev := &s.Events
	iq := mux.IQ(
		publish(ev.IQGet),
		publish(ev.IQSet),
		publish(ev.IQResult),
		publish(ev.IQError),
	)
	iq.Log = s.log
	return mux.New(
		mux.Logger(s.log),
		mux.Handle(stanza.ProceedTLS, publish(ev.TLSProceed)),
		mux.Handle(stanza.SASLChallenge, publish(ev.SASLChallenge)),
		mux.Handle(stanza.SASLResponse, publish(ev.SASLResponse)),
		mux.Handle(stanza.StartTLS, publish(ev.StartTLS)),
		mux.Handle(stanza.ResourceBind, publish(ev.BindSupport)),
		mux.Handle(stanza.SASLMechanisms, publish(ev.SASLSupport)),
		mux.Handle(stanza.IQRegister, publish(ev.UserRegistration)),
		mux.Handle(stanza.StreamError, publish(ev.Error)),
		mux.Handle(stanza.IQ, iq),
		mux.Handle(stanza.Message, publish(ev.Message)),
		mux.Handle(stanza.Presence, publish(ev.Presence)),
		mux.HandleFunc(stanza.BoundJID, s.handleBoundJID),
		mux.HandleFunc(stanza.SASLFailure, func(n *stanza.Node) error {
			s.sasl = false
			ev.SASLFailure.Publish(n)
			return nil
		}),
		mux.Handle(stanza.SASLSuccess, publish(ev.SASLSuccess)),
		mux.Errors(publish(ev.Error)),
		mux.Any(mux.HandlerFunc(func(n *stanza.Node) error {
			ev.Node.Publish(n)
			s.extSignal.Publish(n)
			return nil
		})),
	)
}

func (s *Stream) handleBoundJID(n *stanza.Node) error {
	j, err := jid.Parse(strings.TrimSpace(n.Value()))
	if err != nil {
		return err
	}
	s.boundJID = j
	s.Events.BoundJID.Publish(j)
	return nil
}

func (s *Stream) route(n *stanza.Node) {
	if err := s.router.Route(n); err != nil {
		s.log.WithError(err).WithField("kind", n.Kind().String()).Warn("xmpp: error routing node")
	}
}
