// Copyright 2021 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package disco implements service discovery (XEP-0030) as a stream
// extension.
//
// Importing the package registers its node kinds.
// Streams created with the Plugin option route disco#info and disco#items
// results to the signals of their Discovery extension.
package disco // import "mellium.im/xmppcore/disco"

import (
	"mellium.im/xmppcore/internal/ns"
	"mellium.im/xmppcore/stanza"
)

// Namespaces used by this package.
const (
	NSInfo  = ns.DiscoInfo
	NSItems = ns.DiscoItems
)

// Service discovery kinds.
var (
	QueryInfo = &stanza.Kind{
		Name:   "DiscoQueryInfo",
		Tag:    "query",
		Space:  NSInfo,
		Parent: stanza.IQ,
	}
	QueryItems = &stanza.Kind{
		Name:   "DiscoQueryItems",
		Tag:    "query",
		Space:  NSItems,
		Parent: stanza.IQ,
	}
	ItemKind = &stanza.Kind{
		Name:       "DiscoItem",
		Tag:        "item",
		Space:      NSItems,
		Namespaces: []stanza.Namespace{},
		Single:     true,
		Parent:     QueryItems,
	}
	IdentityKind = &stanza.Kind{
		Name:       "DiscoIdentity",
		Tag:        "identity",
		Space:      NSInfo,
		Namespaces: []stanza.Namespace{},
		Single:     true,
		Parent:     QueryInfo,
	}
	FeatureKind = &stanza.Kind{
		Name:       "DiscoFeature",
		Tag:        "feature",
		Space:      NSInfo,
		Namespaces: []stanza.Namespace{},
		Single:     true,
		Parent:     QueryInfo,
	}
)

func init() {
	stanza.Register(QueryInfo, QueryItems, ItemKind, IdentityKind, FeatureKind)
}
