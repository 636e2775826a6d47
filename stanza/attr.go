// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"encoding/xml"

	"mellium.im/xmppcore/internal/attr"
)

// Attr is an attribute on a node.
// The name is qualified the way it appears on the wire, eg. "xml:lang" or
// "xmlns:stream".
type Attr struct {
	Name  string
	Value string
}

// Pairs builds an ordered attribute list from alternating names and values.
// Pairs panics if it is given an odd number of arguments.
func Pairs(kv ...string) []Attr {
	if len(kv)%2 != 0 {
		panic("stanza: odd number of arguments to Pairs")
	}
	attrs := make([]Attr, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		attrs = append(attrs, Attr{Name: kv[i], Value: kv[i+1]})
	}
	return attrs
}

func fromXMLAttrs(a []xml.Attr) []Attr {
	if len(a) == 0 {
		return nil
	}
	attrs := make([]Attr, 0, len(a))
	for _, v := range a {
		attrs = append(attrs, Attr{Name: attr.Qualified(v.Name), Value: v.Value})
	}
	return attrs
}

func declName(prefix string) string {
	if prefix == "" {
		return "xmlns"
	}
	return "xmlns:" + prefix
}

func isDecl(name string) bool {
	return name == "xmlns" || len(name) > 6 && name[:6] == "xmlns:"
}
