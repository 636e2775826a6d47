// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"mellium.im/xmppcore/internal/ns"
)

// Error kinds.
var (
	// StanzaError is the error child of an IQ, message, or presence.
	StanzaError = &Kind{
		Name:  "StanzaError",
		Tag:   "error",
		Error: true,
	}
	StanzaText = &Kind{
		Name:   "StanzaText",
		Tag:    "text",
		Space:  ns.StanzaErrors,
		Parent: StanzaError,
	}
	StreamError = &Kind{
		Name:   "StreamError",
		Tag:    "stream:error",
		Space:  ns.Stream,
		Parent: Stream,
		Error:  true,
	}
	StreamErrorText = &Kind{
		Name:   "StreamErrorText",
		Tag:    "text",
		Space:  ns.StreamErrors,
		Parent: StreamError,
	}
)

// StanzaConditions are the stanza error conditions defined in RFC 6120 §8.3.3
// keyed by local name.
var StanzaConditions = conditionKinds("Stanza", ns.StanzaErrors, StanzaError,
	"bad-request",
	"conflict",
	"feature-not-implemented",
	"forbidden",
	"gone",
	"internal-server-error",
	"item-not-found",
	"jid-malformed",
	"not-acceptable",
	"not-allowed",
	"not-authorized",
	"policy-violation",
	"recipient-unavailable",
	"redirect",
	"registration-required",
	"remote-server-not-found",
	"remote-server-timeout",
	"resource-constraint",
	"service-unavailable",
	"subscription-required",
	"undefined-condition",
	"unexpected-request",
)

// StreamConditions are the stream error conditions defined in RFC 6120 §4.9.3
// keyed by local name.
var StreamConditions = conditionKinds("Stream", ns.StreamErrors, StreamError,
	"bad-format",
	"bad-namespace-prefix",
	"conflict",
	"connection-timeout",
	"host-gone",
	"host-unknown",
	"improper-addressing",
	"internal-server-error",
	"invalid-from",
	"invalid-namespace",
	"invalid-xml",
	"not-authorized",
	"not-well-formed",
	"policy-violation",
	"remote-connection-failed",
	"reset",
	"resource-constraint",
	"restricted-xml",
	"see-other-host",
	"system-shutdown",
	"undefined-condition",
	"unsupported-encoding",
	"unsupported-feature",
	"unsupported-stanza-type",
	"unsupported-version",
)

func conditionKinds(prefix, space string, parent *Kind, names ...string) map[string]*Kind {
	m := make(map[string]*Kind, len(names))
	for _, name := range names {
		m[name] = &Kind{
			Name:   prefix + ":" + name,
			Tag:    name,
			Space:  space,
			Parent: parent,
			Error:  true,
		}
	}
	return m
}

// Condition returns the local name of the defined condition carried by an
// error node (a stream error, stanza error, or SASL failure), or an empty
// string.
func (n *Node) Condition() string {
	for _, c := range n.children {
		if c.kind.Error || c.kind == Unknown && c.Local() != "text" {
			return c.Local()
		}
	}
	return ""
}

// Text returns the descriptive text of an error node, if any.
func (n *Node) Text() string {
	for _, c := range n.children {
		if c.Local() == "text" {
			return c.value
		}
	}
	return ""
}
