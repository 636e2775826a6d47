// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"mellium.im/xmppcore/event"
	"mellium.im/xmppcore/stanza"
)

// Extension is an instance of a protocol extension bound to one stream.
// Every completed node of a known kind is passed to HandleNode after it has
// been published on the stream's Node signal.
type Extension interface {
	HandleNode(n *stanza.Node) error
}

// Plugin describes a protocol extension.
// New is called once when the stream is created and again every time the
// stream is reset.
type Plugin struct {
	// XEP is the number of the XMPP Extension Protocol implemented by the
	// plugin, eg. "0030".
	XEP string
	New func(*Stream) Extension
}

func (p Plugin) validate() {
	if p.XEP == "" {
		panic("xmpp: plugin without a XEP number")
	}
	for _, r := range p.XEP {
		if r < '0' || r > '9' {
			panic("xmpp: invalid XEP number " + p.XEP)
		}
	}
	if p.New == nil {
		panic("xmpp: plugin for XEP-" + p.XEP + " has no constructor")
	}
}

// Extension returns the instance of the extension with the provided XEP
// number or nil if the stream was not created with a plugin for it.
func (s *Stream) Extension(xep string) Extension {
	return s.extensions[xep]
}

func (s *Stream) loadExtensions() {
	s.extensions = make(map[string]Extension, len(s.plugins))
	s.extSignal = event.New[*stanza.Node]("extensions", s.log)
	for _, p := range s.plugins {
		ext := p.New(s)
		if ext == nil {
			continue
		}
		s.extensions[p.XEP] = ext
		s.extSignal.Subscribe(event.HandlerFunc[*stanza.Node](ext.HandleNode))
	}
}
