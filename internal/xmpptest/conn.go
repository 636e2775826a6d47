// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package xmpptest provides utilities for XMPP testing.
package xmpptest // import "mellium.im/xmppcore/internal/xmpptest"

import (
	"strings"

	"mellium.im/xmppcore/transport"
)

// Conn is a connection that records everything sent on it and returns queued
// input from Receive.
type Conn struct {
	// In is returned from Receive one chunk at a time.
	In []string

	// SendErr, if set, is returned by Send and nothing is recorded.
	SendErr error

	sent         []string
	disconnected int
}

// Send records p.
func (c *Conn) Send(p []byte) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	c.sent = append(c.sent, string(p))
	return nil
}

// Receive returns the next chunk of In or transport.ErrEmpty.
func (c *Conn) Receive() ([]byte, error) {
	if len(c.In) == 0 {
		return nil, transport.ErrEmpty
	}
	var p string
	p, c.In = c.In[0], c.In[1:]
	return []byte(p), nil
}

// Disconnect records that the connection was closed.
func (c *Conn) Disconnect() error {
	c.disconnected++
	return nil
}

// Sent returns every chunk sent on the connection.
func (c *Conn) Sent() []string {
	return c.sent
}

// Output returns everything sent on the connection as a single string.
func (c *Conn) Output() string {
	return strings.Join(c.sent, "")
}

// Disconnects returns the number of times Disconnect was called.
func (c *Conn) Disconnects() int {
	return c.disconnected
}

// Reset forgets everything that was sent.
func (c *Conn) Reset() {
	c.sent = nil
}
