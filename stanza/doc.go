// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package stanza contains the typed element tree used to represent XMPP
// streams, stanzas, and stream negotiation elements.
//
// Every element read from or written to a stream is a Node.
// Each Node has a Kind which describes the element (its tag, namespace, and
// the kind it nests under) and which is resolved through a registry that is
// populated during package initialization and never changes afterwards.
// Elements that do not match any registered Kind are represented with the
// Unknown kind and keep their original tag.
//
// Nodes are serialized deterministically: attributes are written in the order
// they were added and namespace declarations that are already in scope are
// omitted, so building a node through the public API and serializing it always
// yields the same bytes.
package stanza // import "mellium.im/xmppcore/stanza"
