// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package auth provides SASL authenticators for XMPP streams.
//
// Authenticators are backed by the client negotiators of mellium.im/sasl and
// are meant to be passed to xmpp.NewSASLHandler.
package auth // import "mellium.im/xmppcore/auth"

import (
	"crypto/tls"
	"errors"
	"strings"

	"mellium.im/sasl"
)

var (
	// ErrUnknownMechanism is returned by New when the mechanism is not
	// supported.
	ErrUnknownMechanism = errors.New("auth: unknown SASL mechanism")

	// ErrChannelBinding is returned by New when a -PLUS mechanism is requested
	// without the state of the TLS connection.
	ErrChannelBinding = errors.New("auth: channel binding requires a TLS connection state")

	// ErrUnexpectedData is returned by Finish when the server sends additional
	// data after the negotiation is complete.
	ErrUnexpectedData = errors.New("auth: unexpected data after authentication")
)

// mechanisms are the supported mechanisms, strongest first.
var mechanisms = []sasl.Mechanism{
	sasl.ScramSha256Plus,
	sasl.ScramSha1Plus,
	sasl.ScramSha256,
	sasl.ScramSha1,
	sasl.Plain,
}

// Mechanisms returns the names of the supported mechanisms, strongest first.
func Mechanisms() []string {
	names := make([]string, 0, len(mechanisms))
	for _, m := range mechanisms {
		names = append(names, m.Name)
	}
	return names
}

func isPlus(name string) bool {
	return strings.HasSuffix(name, "-PLUS")
}

// Filter returns the offered mechanisms that are supported, strongest first.
// Channel binding (-PLUS) mechanisms are never returned since they need a TLS
// connection state; use New with TLSState to pick one explicitly.
// PLAIN is only returned if allowInsecure is true.
func Filter(offered []string, allowInsecure bool) []string {
	var out []string
	for _, m := range mechanisms {
		if isPlus(m.Name) || m.Name == sasl.Plain.Name && !allowInsecure {
			continue
		}
		for _, o := range offered {
			if strings.EqualFold(strings.TrimSpace(o), m.Name) {
				out = append(out, m.Name)
				break
			}
		}
	}
	return out
}

// Credentials are the secrets used to authenticate.
// Identity is the optional authorization identity.
type Credentials struct {
	Username string
	Password string
	Identity string
}

// Option configures an Authenticator.
type Option func(*config)

type config struct {
	remote []string
	tls    *tls.ConnectionState
}

// RemoteMechanisms sets the mechanisms offered by the server.
// It is used by SCRAM to detect downgrade attacks on channel binding.
func RemoteMechanisms(names ...string) Option {
	return func(c *config) {
		c.remote = names
	}
}

// TLSState sets the state of the TLS connection used for channel binding.
func TLSState(state tls.ConnectionState) Option {
	return func(c *config) {
		c.tls = &state
	}
}

// Authenticator performs the client side of a single SASL negotiation.
// It satisfies xmpp.Authenticator.
type Authenticator struct {
	name   string
	client *sasl.Negotiator
	done   bool
}

// New returns an authenticator for the named mechanism.
func New(mechanism string, creds Credentials, opts ...Option) (*Authenticator, error) {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	var mech sasl.Mechanism
	for _, m := range mechanisms {
		if strings.EqualFold(m.Name, mechanism) {
			mech = m
			break
		}
	}
	if mech.Name == "" {
		return nil, ErrUnknownMechanism
	}
	if isPlus(mech.Name) && cfg.tls == nil {
		return nil, ErrChannelBinding
	}

	saslOpts := []sasl.Option{
		sasl.Credentials(func() ([]byte, []byte, []byte) {
			return []byte(creds.Username), []byte(creds.Password), []byte(creds.Identity)
		}),
	}
	if len(cfg.remote) > 0 {
		saslOpts = append(saslOpts, sasl.RemoteMechanisms(cfg.remote...))
	}
	if cfg.tls != nil {
		saslOpts = append(saslOpts, sasl.TLSState(*cfg.tls))
	}
	return &Authenticator{
		name:   mech.Name,
		client: sasl.NewClient(mech, saslOpts...),
	}, nil
}

// Mechanism returns the name of the mechanism.
func (a *Authenticator) Mechanism() string {
	return a.name
}

// Start returns the initial response.
func (a *Authenticator) Start() ([]byte, error) {
	return a.step(nil)
}

// Challenge returns the response to a server challenge.
func (a *Authenticator) Challenge(data []byte) ([]byte, error) {
	return a.step(data)
}

// Finish validates the additional data sent with the server's success, such
// as the SCRAM server signature.
func (a *Authenticator) Finish(data []byte) error {
	if a.done {
		if len(data) > 0 {
			return ErrUnexpectedData
		}
		return nil
	}
	_, err := a.step(data)
	return err
}

func (a *Authenticator) step(data []byte) ([]byte, error) {
	more, resp, err := a.client.Step(data)
	if err != nil {
		return nil, err
	}
	a.done = !more
	return resp, nil
}
