// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp_test

import (
	"strconv"
	"testing"

	xmpp "mellium.im/xmppcore"
	"mellium.im/xmppcore/internal/xmpptest"
	"mellium.im/xmppcore/stanza"
)

type countingExt struct {
	nodes []*stanza.Node
}

func (e *countingExt) HandleNode(n *stanza.Node) error {
	e.nodes = append(e.nodes, n)
	return nil
}

func TestExtensionsRebuiltOnReset(t *testing.T) {
	var created []*countingExt
	plugin := xmpp.Plugin{
		XEP: "0199",
		New: func(*xmpp.Stream) xmpp.Extension {
			e := &countingExt{}
			created = append(created, e)
			return e
		},
	}
	s, _ := xmpptest.NewStream(xmpp.Extensions(plugin))
	if len(created) != 1 {
		t.Fatalf("wrong number of instances: want=1, got=%d", len(created))
	}
	if ext := s.Extension("0199"); ext != created[0] {
		t.Fatalf("wrong extension instance: %v", ext)
	}
	if ext := s.Extension("0030"); ext != nil {
		t.Errorf("unexpected extension: %v", ext)
	}

	xmpptest.OpenStream(s)
	s.FeedString(`<presence/>`)
	if n := len(created[0].nodes); n != 1 {
		t.Errorf("extension saw %d nodes, want 1", n)
	}

	s.Reset()
	if len(created) != 2 || s.Extension("0199") != created[1] {
		t.Fatalf("reset did not rebuild the extension")
	}
	xmpptest.OpenStream(s)
	s.FeedString(`<presence/>`)
	if len(created[0].nodes) != 1 || len(created[1].nodes) != 1 {
		t.Errorf("nodes were delivered to the wrong instances: old=%d, new=%d", len(created[0].nodes), len(created[1].nodes))
	}
}

func TestExtensionSkipsUnknown(t *testing.T) {
	ext := &countingExt{}
	s, _ := xmpptest.NewStream(xmpp.Extensions(xmpp.Plugin{
		XEP: "0001",
		New: func(*xmpp.Stream) xmpp.Extension { return ext },
	}))
	xmpptest.OpenStream(s)
	s.FeedString(`<unknown xmlns="urn:example"/>`)
	if len(ext.nodes) != 0 {
		t.Errorf("extension received a node of unknown kind")
	}
}

var badPlugins = [...][]xmpp.Plugin{
	0: {{XEP: "", New: func(*xmpp.Stream) xmpp.Extension { return nil }}},
	1: {{XEP: "XEP-0030", New: func(*xmpp.Stream) xmpp.Extension { return nil }}},
	2: {{XEP: "0030"}},
	3: {
		{XEP: "0030", New: func(*xmpp.Stream) xmpp.Extension { return nil }},
		{XEP: "0030", New: func(*xmpp.Stream) xmpp.Extension { return nil }},
	},
}

func TestInvalidPluginsPanic(t *testing.T) {
	for i, plugins := range badPlugins {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("expected invalid plugins to panic")
				}
			}()
			xmpptest.NewStream(xmpp.Extensions(plugins...))
		})
	}
}
