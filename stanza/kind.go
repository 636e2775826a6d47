// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"encoding/xml"
	"strings"

	"mellium.im/xmppcore/internal/ns"
)

// Namespace is a namespace declaration.
// An empty prefix declares the default namespace.
type Namespace struct {
	Prefix string
	URI    string
}

// Kind describes one type of element.
//
// Kinds with a Space are matched by namespace and local name.
// Kinds without one are matched by local name alone and only in a content
// namespace (jabber:client, jabber:server, jabber:component:accept); when more
// than one of those share a name, Parent disambiguates.
//
// Kinds must not be modified after they have been registered.
type Kind struct {
	// Name is a human readable name used in logs and errors.
	Name string

	// Tag is the tag as written on the wire, including any prefix.
	Tag string

	// Space is the namespace used to match the kind.
	Space string

	// Namespaces are the declarations added to new nodes created from the kind.
	// If nil and the kind has a Space and an unprefixed tag, the Space is
	// declared as the default namespace.
	Namespaces []Namespace

	// Single kinds never have children.
	Single bool

	// Parent is the kind this kind nests under.
	Parent *Kind

	// Error marks kinds that report a stream, stanza, or SASL error condition.
	Error bool
}

// Local returns the tag without any prefix.
func (k *Kind) Local() string {
	_, local := splitTag(k.Tag)
	return local
}

// Prefix returns the prefix of the tag, if any.
func (k *Kind) Prefix() string {
	prefix, _ := splitTag(k.Tag)
	return prefix
}

// String returns the name of the kind.
func (k *Kind) String() string {
	if k == nil {
		return "<nil>"
	}
	return k.Name
}

func (k *Kind) declarations() []Namespace {
	if k.Namespaces != nil {
		return k.Namespaces
	}
	if k.Space != "" && k.Prefix() == "" {
		return []Namespace{{URI: k.Space}}
	}
	return nil
}

// Create returns a new open node of kind k with the provided attributes.
// The namespace declarations of the kind are appended unless attrs already
// declares them.
func (k *Kind) Create(attrs ...Attr) *Node {
	n := &Node{
		kind:  k,
		tag:   k.Tag,
		space: k.Space,
	}
	n.attrs = append(n.attrs, attrs...)
	for _, d := range k.declarations() {
		name := declName(d.Prefix)
		if _, ok := n.LookupAttr(name); !ok {
			n.attrs = append(n.attrs, Attr{Name: name, Value: d.URI})
		}
	}
	if uri, ok := n.LookupAttr("xmlns"); ok && k.Prefix() == "" {
		n.space = uri
	}
	return n
}

// CreateText is like Create except that the node starts out with the provided
// character data.
func (k *Kind) CreateText(text string, attrs ...Attr) *Node {
	n := k.Create(attrs...)
	n.value = text
	return n
}

// Unknown is the kind of every element that does not match a registered kind.
// Nodes of this kind keep the tag they were read with.
var Unknown = &Kind{
	Name: "Unknown",
	Tag:  "xmpp-unknown",
}

type registry struct {
	qualified map[xml.Name]*Kind
	bare      map[string][]*Kind
	all       []*Kind
}

var kinds registry

// Register adds kinds to the registry.
// It is meant to be called from init functions; the registry is not safe for
// concurrent modification.
//
// Register panics if a kind has no tag, if a qualified kind is registered
// twice for the same namespace and local name, or if two unqualified kinds
// with the same local name share a parent.
func Register(k ...*Kind) {
	for _, kind := range k {
		kinds.register(kind)
	}
}

func (r *registry) register(k *Kind) {
	if k == nil || k.Tag == "" {
		panic("stanza: registered kind must have a tag")
	}
	local := k.Local()
	if k.Space != "" {
		name := xml.Name{Space: k.Space, Local: local}
		if _, ok := r.qualified[name]; ok {
			panic("stanza: multiple registrations for {" + k.Space + "}" + local)
		}
		if r.qualified == nil {
			r.qualified = make(map[xml.Name]*Kind)
		}
		r.qualified[name] = k
	} else {
		for _, other := range r.bare[local] {
			if other.Parent == k.Parent {
				panic("stanza: multiple registrations for " + local + " under " + k.Parent.String())
			}
		}
		if r.bare == nil {
			r.bare = make(map[string][]*Kind)
		}
		r.bare[local] = append(r.bare[local], k)
	}
	r.all = append(r.all, k)
}

// Kinds returns every registered kind in registration order.
func Kinds() []*Kind {
	k := make([]*Kind, len(kinds.all))
	copy(k, kinds.all)
	return k
}

// Lookup resolves an element to its most specific registered kind.
// Local is the tag without prefix, space the namespace the element is in and
// parent the kind of the enclosing element (or nil).
// Lookup never returns nil; unmatched elements resolve to Unknown.
func Lookup(local, space string, parent *Kind) *Kind {
	if k, ok := kinds.qualified[xml.Name{Space: space, Local: local}]; ok {
		return k
	}
	if !isContentSpace(space) {
		return Unknown
	}
	candidates := kinds.bare[local]
	for _, k := range candidates {
		if parent != nil && k.Parent == parent {
			return k
		}
	}
	for _, k := range candidates {
		if k.Parent == nil {
			return k
		}
	}
	if parent == nil && len(candidates) > 0 {
		return candidates[0]
	}
	return Unknown
}

func isContentSpace(space string) bool {
	switch space {
	case "", ns.Client, ns.Server, ns.Component:
		return true
	}
	return false
}

func splitTag(tag string) (prefix, local string) {
	if i := strings.IndexByte(tag, ':'); i != -1 {
		return tag[:i], tag[i+1:]
	}
	return "", tag
}
