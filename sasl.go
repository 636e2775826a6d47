// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"mellium.im/xmppcore/event"
	"mellium.im/xmppcore/stanza"
)

// Authenticator performs the client side of one SASL mechanism.
//
// Start returns the initial response, or nil if the mechanism has none.
// Challenge returns the response to a server challenge.
// Finish validates any additional data sent with the server's success.
type Authenticator interface {
	Mechanism() string
	Start() ([]byte, error)
	Challenge(data []byte) ([]byte, error)
	Finish(data []byte) error
}

// SendSASLAuth sends an authentication request for mechanism with an optional
// initial response.
func (s *Stream) SendSASLAuth(mechanism string, payload []byte) error {
	return s.Send(stanza.NewSASLAuth(mechanism, payload))
}

// SendSASLResponse sends a response to a SASL challenge.
func (s *Stream) SendSASLResponse(payload []byte) error {
	return s.Send(stanza.NewSASLResponse(payload))
}

// FinishSASL records that SASL authentication succeeded and moves the stream
// into the Authenticated state unless it has been closed.
func (s *Stream) FinishSASL() {
	s.sasl = true
	if s.state != Closed {
		s.setState(Authenticated)
	}
}

// SASLHandler drives SASL negotiation on a stream with an Authenticator.
// Only one handler should be used with a stream.
type SASLHandler struct {
	// Success carries the server's success node after the authenticator has
	// accepted it.
	Success *event.Signal[*stanza.Node]

	// Failure carries a *SASLError when the server rejects the authentication
	// or the authenticator fails.
	Failure *event.Signal[error]

	s    *Stream
	auth Authenticator
}

// NewSASLHandler returns a handler that answers challenges sent on s using
// auth.
func NewSASLHandler(s *Stream, auth Authenticator) *SASLHandler {
	h := &SASLHandler{
		Success: event.New[*stanza.Node]("sasl.success", s.log),
		Failure: event.New[error]("sasl.failure", s.log),
		s:       s,
		auth:    auth,
	}
	s.Events.SASLChallenge.SubscribeFunc(h.challenge)
	s.Events.SASLSuccess.SubscribeFunc(h.success)
	s.Events.SASLFailure.SubscribeFunc(h.failure)
	return h
}

// Start sends the authentication request with the authenticator's initial
// response.
func (h *SASLHandler) Start() error {
	payload, err := h.auth.Start()
	if err != nil {
		return err
	}
	return h.s.SendSASLAuth(h.auth.Mechanism(), payload)
}

func (h *SASLHandler) challenge(n *stanza.Node) error {
	data, err := n.Decoded()
	if err != nil {
		return h.abort(err)
	}
	resp, err := h.auth.Challenge(data)
	if err != nil {
		return h.abort(err)
	}
	return h.s.SendSASLResponse(resp)
}

func (h *SASLHandler) success(n *stanza.Node) error {
	data, err := n.Decoded()
	if err == nil {
		err = h.auth.Finish(data)
	}
	if err != nil {
		h.Failure.Publish(&SASLError{Err: err})
		return err
	}
	h.s.FinishSASL()
	h.Success.Publish(n)
	return nil
}

func (h *SASLHandler) failure(n *stanza.Node) error {
	h.Failure.Publish(&SASLError{
		Condition: n.Condition(),
		Text:      n.Text(),
	})
	return nil
}

func (h *SASLHandler) abort(err error) error {
	h.Failure.Publish(&SASLError{Err: err})
	if sendErr := h.s.Send(stanza.SASLAbort.Create()); sendErr != nil {
		return sendErr
	}
	return err
}
