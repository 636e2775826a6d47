// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"encoding/xml"
	"errors"
	"strings"
	"unicode/utf8"

	"mellium.im/xmppcore/internal/ns"
)

// ErrClosed is wrapped by errors returned when appending to a closed node.
var ErrClosed = errors.New("stanza: node is closed")

// ClosedNodeError is returned when a child is appended to a node that has been
// closed or that can never have children.
type ClosedNodeError struct {
	Tag string
}

// Error satisfies the error interface.
func (e *ClosedNodeError) Error() string {
	return "stanza: cannot append a child to closed node <" + e.Tag + ">"
}

// Unwrap returns ErrClosed.
func (e *ClosedNodeError) Unwrap() error {
	return ErrClosed
}

// Node is an element in an XMPP stream.
//
// Nodes are not safe for concurrent use.
type Node struct {
	kind     *Kind
	tag      string
	space    string
	attrs    []Attr
	value    string
	children []*Node
	scope    *Node
	closed   bool
	features map[string][]string
}

// FromStart materializes a start element read from the wire.
// The element name and attribute names must be raw (as returned by
// xml.Decoder.RawToken) so that prefixes are preserved.
// Scope is the enclosing element used to resolve namespace prefixes and the
// parent kind; it may be nil.
// The new node is not appended to scope.
func FromStart(start xml.StartElement, scope *Node) *Node {
	n := &Node{
		tag:   start.Name.Local,
		attrs: fromXMLAttrs(start.Attr),
		scope: scope,
	}
	if start.Name.Space != "" {
		n.tag = start.Name.Space + ":" + start.Name.Local
	}
	n.space, _ = n.LookupPrefix(start.Name.Space)
	var parent *Kind
	if scope != nil {
		parent = scope.kind
	}
	n.kind = Lookup(start.Name.Local, n.space, parent)
	return n
}

// Kind returns the kind of the node.
func (n *Node) Kind() *Kind {
	return n.kind
}

// Is reports whether the node is of kind k.
func (n *Node) Is(k *Kind) bool {
	return n != nil && n.kind == k
}

// Tag returns the tag of the node as it was written, including any prefix.
func (n *Node) Tag() string {
	return n.tag
}

// Local returns the tag of the node without its prefix.
func (n *Node) Local() string {
	_, local := splitTag(n.tag)
	return local
}

// Space returns the namespace of the node.
func (n *Node) Space() string {
	return n.space
}

// LookupPrefix resolves a namespace prefix in the scope of the node.
// The "xml" prefix is always bound and the "stream" prefix defaults to the
// streams namespace when it was never declared.
func (n *Node) LookupPrefix(prefix string) (string, bool) {
	name := declName(prefix)
	for e := n; e != nil; e = e.scope {
		if v, ok := e.LookupAttr(name); ok {
			return v, true
		}
	}
	switch prefix {
	case "xml":
		return ns.XML, true
	case "stream":
		return ns.Stream, true
	}
	return "", prefix == ""
}

// Attr returns the value of the named attribute or an empty string.
func (n *Node) Attr(name string) string {
	v, _ := n.LookupAttr(name)
	return v
}

// LookupAttr returns the value of the named attribute and whether it was
// present.
func (n *Node) LookupAttr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets the value of the named attribute, replacing an existing value in
// place or adding the attribute to the end of the list.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	if name == "xmlns" && n.kind.Prefix() == "" {
		n.space = value
	}
}

// Attrs returns a copy of the attributes of the node in order.
func (n *Node) Attrs() []Attr {
	attrs := make([]Attr, len(n.attrs))
	copy(attrs, n.attrs)
	return attrs
}

// ID returns the id attribute.
func (n *Node) ID() string {
	return n.Attr("id")
}

// Type returns the type attribute.
func (n *Node) Type() string {
	return n.Attr("type")
}

// To returns the to attribute.
func (n *Node) To() string {
	return n.Attr("to")
}

// From returns the from attribute.
func (n *Node) From() string {
	return n.Attr("from")
}

// Value returns the character data of the node.
func (n *Node) Value() string {
	return n.value
}

// SetValue replaces the character data of the node.
func (n *Node) SetValue(v string) {
	n.value = v
}

// AddText appends character data to the node.
// If max is greater than zero the value is truncated to at most max bytes
// (without splitting a UTF-8 sequence) and AddText reports whether anything
// was discarded.
func (n *Node) AddText(s string, max int) (truncated bool) {
	if max <= 0 {
		n.value += s
		return false
	}
	room := max - len(n.value)
	if room <= 0 {
		return s != ""
	}
	if len(s) > room {
		for room > 0 && !utf8.RuneStart(s[room]) {
			room--
		}
		n.value += s[:room]
		return true
	}
	n.value += s
	return false
}

// Append adds child to the end of the children of n.
// If n is closed or of a single kind a *ClosedNodeError is returned.
func (n *Node) Append(child *Node) error {
	if n.Closed() {
		return &ClosedNodeError{Tag: n.tag}
	}
	child.scope = n
	n.children = append(n.children, child)
	return nil
}

// Remove detaches child from n and reports whether it was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return true
		}
	}
	return false
}

// Close marks the node as complete.
// Closed nodes do not accept children.
// Whitespace-only character data is discarded from nodes that have children.
func (n *Node) Close() {
	n.closed = true
	if len(n.children) > 0 && strings.TrimSpace(n.value) == "" {
		n.value = ""
	}
}

// Closed reports whether the node has been closed or is of a kind that never
// has children.
func (n *Node) Closed() bool {
	return n.closed || n.kind.Single
}

// Children returns the children of the node in document order.
// The returned slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Child returns the first child of kind k or nil.
func (n *Node) Child(k *Kind) *Node {
	for _, c := range n.children {
		if c.kind == k {
			return c
		}
	}
	return nil
}

// Get returns the first child with the provided local name or nil.
func (n *Node) Get(local string) *Node {
	for _, c := range n.children {
		if c.Local() == local {
			return c
		}
	}
	return nil
}

// Query returns every child with the provided local name.
func (n *Node) Query(local string) []*Node {
	var found []*Node
	for _, c := range n.children {
		if c.Local() == local {
			found = append(found, c)
		}
	}
	return found
}

// Equal reports whether two nodes have the same kind, tag, attributes, value,
// and children.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.kind != other.kind || n.tag != other.tag || n.value != other.value ||
		len(n.attrs) != len(other.attrs) || len(n.children) != len(other.children) {
		return false
	}
	for i := range n.attrs {
		if n.attrs[i] != other.attrs[i] {
			return false
		}
	}
	for i := range n.children {
		if !n.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}

func (n *Node) mustAppend(child *Node) {
	if err := n.Append(child); err != nil {
		panic(err)
	}
}
