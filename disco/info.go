// Copyright 2021 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package disco

import (
	"strings"

	"mellium.im/xmppcore/jid"
	"mellium.im/xmppcore/stanza"
)

// Identity is the type and category of an entity on the network.
type Identity struct {
	Category string
	Type     string
	Name     string
}

// String returns the non-empty parts of the identity joined by colons, for
// example "server:im:Prosody".
func (i Identity) String() string {
	return joinNonEmpty(i.Category, i.Type, i.Name)
}

// Node returns the identity as an element to be sent in a disco#info result.
func (i Identity) Node() *stanza.Node {
	attrs := stanza.Pairs("category", i.Category, "type", i.Type)
	if i.Name != "" {
		attrs = append(attrs, stanza.Attr{Name: "name", Value: i.Name})
	}
	return IdentityKind.Create(attrs...)
}

// Feature is a protocol namespace supported by an entity.
type Feature string

// String returns "feature:" followed by the namespace.
func (f Feature) String() string {
	return "feature:" + string(f)
}

// Item is an entity associated with another entity.
type Item struct {
	JID  jid.JID
	Name string
	Node string
}

// String returns "component:jid:" followed by the address of the item or, if
// the item has no address, its remaining attributes.
func (i Item) String() string {
	if !i.JID.IsZero() {
		return "component:jid:" + i.JID.String()
	}
	var parts []string
	if i.Name != "" {
		parts = append(parts, "name:"+i.Name)
	}
	if i.Node != "" {
		parts = append(parts, "node:"+i.Node)
	}
	return "item:" + strings.Join(parts, ":")
}

func joinNonEmpty(s ...string) string {
	parts := make([]string, 0, len(s))
	for _, v := range s {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ":")
}

// query returns n if it is of kind k or its first child of kind k.
func query(n *stanza.Node, k *stanza.Kind) *stanza.Node {
	if n.Is(k) {
		return n
	}
	return n.Child(k)
}

// Identities returns the identities in a disco#info result.
// N may be the IQ or its query payload.
func Identities(n *stanza.Node) []Identity {
	q := query(n, QueryInfo)
	if q == nil {
		return nil
	}
	var ids []Identity
	for _, c := range q.Children() {
		if !c.Is(IdentityKind) {
			continue
		}
		ids = append(ids, Identity{
			Category: c.Attr("category"),
			Type:     c.Attr("type"),
			Name:     c.Attr("name"),
		})
	}
	return ids
}

// Features returns the features in a disco#info result.
// Features without a var attribute fall back to their character data.
func Features(n *stanza.Node) []Feature {
	q := query(n, QueryInfo)
	if q == nil {
		return nil
	}
	var features []Feature
	for _, c := range q.Children() {
		if !c.Is(FeatureKind) {
			continue
		}
		v, ok := c.LookupAttr("var")
		if !ok {
			v = strings.TrimSpace(c.Value())
		}
		features = append(features, Feature(v))
	}
	return features
}

// Items returns the items in a disco#items result.
// Items with an invalid address are returned without one.
func Items(n *stanza.Node) []Item {
	q := query(n, QueryItems)
	if q == nil {
		return nil
	}
	var items []Item
	for _, c := range q.Children() {
		if !c.Is(ItemKind) {
			continue
		}
		item := Item{
			Name: c.Attr("name"),
			Node: c.Attr("node"),
		}
		if v := c.Attr("jid"); v != "" {
			item.JID, _ = jid.Parse(v)
		}
		items = append(items, item)
	}
	return items
}
