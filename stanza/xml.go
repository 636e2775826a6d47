// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"mellium.im/xmlstream"

	"mellium.im/xmppcore/internal/attr"
	"mellium.im/xmppcore/internal/decl"
)

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\r", "&#xD;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

// ToXML serializes the node and its children.
//
// Attributes are written in insertion order.
// Namespace declarations with the same value as the declaration already in
// scope from an enclosing node are omitted.
// Nodes without a value or children are written as empty element tags.
// Nodes of the Stream kind are written without an end tag.
func (n *Node) ToXML() string {
	var b strings.Builder
	n.write(&b, nil)
	return b.String()
}

// String returns the same value as ToXML.
func (n *Node) String() string {
	return n.ToXML()
}

// WriteTo writes the serialized node to w.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	written, err := io.WriteString(w, n.ToXML())
	return int64(written), err
}

func (n *Node) write(b *strings.Builder, inscope []Attr) {
	b.WriteByte('<')
	b.WriteString(n.tag)
	scope := inscope
	for _, a := range n.attrs {
		if isDecl(a.Name) {
			if inherited(inscope, a) {
				continue
			}
			scope = append(scope[:len(scope):len(scope)], a)
		}
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		attrEscaper.WriteString(b, a.Value)
		b.WriteByte('"')
	}
	if n.kind == Stream {
		b.WriteByte('>')
		for _, c := range n.children {
			c.write(b, scope)
		}
		return
	}
	if n.value == "" && len(n.children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	textEscaper.WriteString(b, n.value)
	for _, c := range n.children {
		c.write(b, scope)
	}
	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteByte('>')
}

func inherited(scope []Attr, decl Attr) bool {
	for i := len(scope) - 1; i >= 0; i-- {
		if scope[i].Name == decl.Name {
			return scope[i].Value == decl.Value
		}
	}
	return false
}

// TokenReader returns a stream of tokens that encode the node.
// Names are not namespace-resolved: prefixes and namespace declarations are
// carried in the local names exactly as ToXML writes them.
func (n *Node) TokenReader() xml.TokenReader {
	start := xml.StartElement{Name: xml.Name{Local: n.tag}}
	for _, a := range n.attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	inner := make([]xml.TokenReader, 0, len(n.children)+1)
	if n.value != "" {
		inner = append(inner, xmlstream.Token(xml.CharData(n.value)))
	}
	for _, c := range n.children {
		inner = append(inner, c.TokenReader())
	}
	if n.kind == Stream {
		return xmlstream.MultiReader(append([]xml.TokenReader{xmlstream.Token(start)}, inner...)...)
	}
	return xmlstream.Wrap(xmlstream.MultiReader(inner...), start)
}

// WriteXML satisfies the xmlstream.WriterTo interface.
// It is like ToXML except that it writes tokens to w.
func (n *Node) WriteXML(w xmlstream.TokenWriter) (int, error) {
	return xmlstream.Copy(w, n.TokenReader())
}

// ErrMismatchedTag is returned by Parse when an end tag does not close the
// most recently opened element.
var ErrMismatchedTag = errors.New("stanza: mismatched end tag")

// ParseString is like Parse but it reads from a string.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a single XML element, and all of its children, from r.
// A stream header that is never closed is accepted and returned with the
// children read so far.
func Parse(r io.Reader) (*Node, error) {
	d := xml.NewDecoder(r)
	tr := decl.Skip(xmlstream.ReaderFunc(d.RawToken))

	var root, cur *Node
	for {
		tok, err := tr.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := FromStart(t, cur)
			switch {
			case cur != nil:
				// Children of nodes that cannot have any are read and dropped.
				_ = cur.Append(n)
			case root != nil:
				return nil, errors.New("stanza: multiple root elements")
			default:
				root = n
			}
			cur = n
		case xml.EndElement:
			if cur == nil || attr.Qualified(t.Name) != cur.tag {
				return nil, fmt.Errorf("%w </%s>", ErrMismatchedTag, attr.Qualified(t.Name))
			}
			cur.Close()
			cur = cur.scope
		case xml.CharData:
			if cur != nil {
				cur.value += string(t)
			}
		}
	}
	switch {
	case root == nil:
		return nil, io.ErrUnexpectedEOF
	case cur == nil, cur == root && root.kind == Stream:
		return root, nil
	}
	return nil, io.ErrUnexpectedEOF
}
