// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"strings"

	"mellium.im/xmppcore/internal/ns"
)

// inherit is used by kinds that never declare a namespace of their own and
// take the namespace of their parent.
var inherit = []Namespace{}

// Stream and stream negotiation kinds.
var (
	Stream = &Kind{
		Name:  "Stream",
		Tag:   "stream:stream",
		Space: ns.Stream,
		Namespaces: []Namespace{
			{URI: ns.Client},
			{Prefix: "stream", URI: ns.Stream},
		},
	}
	StreamFeatures = &Kind{
		Name:   "StreamFeatures",
		Tag:    "stream:features",
		Space:  ns.Stream,
		Parent: Stream,
	}
	StartTLS = &Kind{
		Name:   "StartTLS",
		Tag:    "starttls",
		Space:  ns.StartTLS,
		Parent: StreamFeatures,
	}
	ProceedTLS = &Kind{
		Name:   "ProceedTLS",
		Tag:    "proceed",
		Space:  ns.StartTLS,
		Single: true,
	}
	IQRegister = &Kind{
		Name:   "IQRegister",
		Tag:    "register",
		Space:  ns.Register,
		Single: true,
		Parent: StreamFeatures,
	}
	ResourceBind = &Kind{
		Name:   "ResourceBind",
		Tag:    "bind",
		Space:  ns.Bind,
		Parent: StreamFeatures,
	}
	BindResource = &Kind{
		Name:       "BindResource",
		Tag:        "resource",
		Space:      ns.Bind,
		Namespaces: inherit,
		Parent:     ResourceBind,
	}
	BoundJID = &Kind{
		Name:       "BoundJID",
		Tag:        "jid",
		Space:      ns.Bind,
		Namespaces: inherit,
		Parent:     ResourceBind,
	}
	BindRequired = &Kind{
		Name:       "BindRequired",
		Tag:        "required",
		Space:      ns.Bind,
		Namespaces: inherit,
		Single:     true,
		Parent:     ResourceBind,
	}
	BindOptional = &Kind{
		Name:       "BindOptional",
		Tag:        "optional",
		Space:      ns.Bind,
		Namespaces: inherit,
		Single:     true,
		Parent:     ResourceBind,
	}
	Session = &Kind{
		Name:   "Session",
		Tag:    "session",
		Space:  ns.Session,
		Parent: StreamFeatures,
	}
	SessionRequired = &Kind{
		Name:       "SessionRequired",
		Tag:        "required",
		Space:      ns.Session,
		Namespaces: inherit,
		Single:     true,
		Parent:     Session,
	}
	SessionOptional = &Kind{
		Name:       "SessionOptional",
		Tag:        "optional",
		Space:      ns.Session,
		Namespaces: inherit,
		Single:     true,
		Parent:     Session,
	}
	RosterVersioning = &Kind{
		Name:   "RosterVersioning",
		Tag:    "ver",
		Space:  ns.RosterVersion,
		Single: true,
		Parent: StreamFeatures,
	}
)

// NewClientStream returns the header of a client stream addressed to the
// provided domain.
// If tls is true a STARTTLS request follows the header.
func NewClientStream(to string, tls bool) *Node {
	n := Stream.Create(Pairs("to", to, "version", "1.0")...)
	if tls {
		n.mustAppend(StartTLS.Create())
	}
	return n
}

// NewComponentStream returns the header of a component stream (XEP-0114)
// addressed to the provided domain.
// If tls is true a STARTTLS request follows the header.
func NewComponentStream(to string, tls bool) *Node {
	n := Stream.Create(Pairs("to", to, "xmlns", ns.Component)...)
	if tls {
		n.mustAppend(StartTLS.Create())
	}
	return n
}

// NewResourceBind returns a resource binding request payload.
// If resource is empty the server is asked to generate one.
func NewResourceBind(resource string) *Node {
	n := ResourceBind.Create()
	if resource = strings.TrimSpace(resource); resource != "" {
		n.mustAppend(BindResource.CreateText(resource))
	}
	return n
}

// StreamID returns the id attribute of a stream header.
func (n *Node) StreamID() string {
	return n.Attr("id")
}

// Features returns the features advertised by the first stream features child
// of the node, keyed by namespace.
// The values are the non-empty character data of each feature's children, for
// example the names of the offered SASL mechanisms.
// The result is cached once it is not empty and must not be modified.
func (n *Node) Features() map[string][]string {
	if len(n.features) > 0 {
		return n.features
	}
	features := n.Child(StreamFeatures)
	if features == nil {
		return nil
	}
	data := make(map[string][]string, len(features.children))
	for _, feature := range features.children {
		var values []string
		for _, c := range feature.children {
			if v := strings.TrimSpace(c.value); v != "" {
				values = append(values, v)
			}
		}
		data[feature.space] = values
	}
	if len(data) > 0 {
		n.features = data
	}
	return data
}

// SupportsTLS reports whether the stream offered STARTTLS.
func (n *Node) SupportsTLS() bool {
	_, ok := n.Features()[ns.StartTLS]
	return ok
}

// AcceptsRegistration reports whether the stream offered in-band
// registration.
func (n *Node) AcceptsRegistration() bool {
	_, ok := n.Features()[ns.Register]
	return ok
}

// SASLMechanisms returns the SASL mechanisms offered by the stream.
func (n *Node) SASLMechanisms() []string {
	return n.Features()[ns.SASL]
}
