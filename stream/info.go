// Copyright 2020 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stream

import (
	"golang.org/x/text/language"

	"mellium.im/xmppcore/internal/ns"
	"mellium.im/xmppcore/jid"
	"mellium.im/xmppcore/stanza"
)

// Info contains metadata extracted from a stream header.
type Info struct {
	XMLNS   string
	To      jid.JID
	From    jid.JID
	ID      string
	Version Version
	Lang    language.Tag
}

// FromNode sets the data in Info from the provided stream header.
// The returned error, if any, is the stream error a peer would respond with.
func (i *Info) FromNode(n *stanza.Node) error {
	if !n.Is(stanza.Stream) {
		return BadFormat
	}
	for _, attr := range n.Attrs() {
		var err error
		switch attr.Name {
		case "to":
			i.To, err = jid.Parse(attr.Value)
			if err != nil {
				return ImproperAddressing
			}
		case "from":
			i.From, err = jid.Parse(attr.Value)
			if err != nil {
				return ImproperAddressing
			}
		case "id":
			i.ID = attr.Value
		case "version":
			i.Version, err = ParseVersion(attr.Value)
			if err != nil {
				return BadFormat
			}
		case "xmlns":
			switch attr.Value {
			case ns.Client, ns.Server, ns.Component:
			default:
				return InvalidNamespace
			}
			i.XMLNS = attr.Value
		case "xmlns:stream":
			if attr.Value != NS {
				return InvalidNamespace
			}
		case "xml:lang":
			i.Lang, err = language.Parse(attr.Value)
			if err != nil {
				return BadFormat
			}
		}
	}
	return nil
}
