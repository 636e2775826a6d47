// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza_test

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strconv"
	"strings"
	"testing"

	"mellium.im/xmppcore/stanza"
)

func mechanisms(names ...string) *stanza.Node {
	n := stanza.SASLMechanisms.Create()
	for _, name := range names {
		if err := n.Append(stanza.SASLMechanism.CreateText(name)); err != nil {
			panic(err)
		}
	}
	return n
}

func withChild(parent *stanza.Node, children ...*stanza.Node) *stanza.Node {
	for _, c := range children {
		if err := parent.Append(c); err != nil {
			panic(err)
		}
	}
	return parent
}

var serializeTests = [...]struct {
	node *stanza.Node
	xml  string
}{
	0: {
		node: stanza.NewClientStream("domain.im", false),
		xml:  `<stream:stream to="domain.im" version="1.0" xmlns="jabber:client" xmlns:stream="http://etherx.jabber.org/streams">`,
	},
	1: {
		node: stanza.NewClientStream("domain.im", true),
		xml:  `<stream:stream to="domain.im" version="1.0" xmlns="jabber:client" xmlns:stream="http://etherx.jabber.org/streams"><starttls xmlns="urn:ietf:params:xml:ns:xmpp-tls"/>`,
	},
	2: {
		node: stanza.NewComponentStream("component.localhost", false),
		xml:  `<stream:stream to="component.localhost" xmlns="jabber:component:accept" xmlns:stream="http://etherx.jabber.org/streams">`,
	},
	3: {
		node: stanza.NewMessage("hello", stanza.Pairs("to", "juliet@example.com")...),
		xml:  `<message to="juliet@example.com" type="chat"><body>hello</body></message>`,
	},
	4: {
		node: stanza.NewMessage("a<b&c", stanza.Pairs("to", `"q"`, "type", "normal")...),
		xml:  `<message to="&quot;q&quot;" type="normal"><body>a&lt;b&amp;c</body></message>`,
	},
	5: {
		node: mechanisms("PLAIN", "SCRAM-SHA-1"),
		xml:  `<mechanisms xmlns="urn:ietf:params:xml:ns:xmpp-sasl"><mechanism>PLAIN</mechanism><mechanism>SCRAM-SHA-1</mechanism></mechanisms>`,
	},
	6: {
		node: withChild(
			stanza.SASLMechanisms.Create(),
			stanza.SASLMechanism.CreateText("PLAIN", stanza.Attr{Name: "xmlns", Value: "urn:ietf:params:xml:ns:xmpp-sasl"}),
		),
		xml: `<mechanisms xmlns="urn:ietf:params:xml:ns:xmpp-sasl"><mechanism>PLAIN</mechanism></mechanisms>`,
	},
	7: {
		node: stanza.NewSASLAuth("PLAIN", []byte("\x00user\x00pass")),
		xml:  `<auth mechanism="PLAIN" xmlns="urn:ietf:params:xml:ns:xmpp-sasl">AHVzZXIAcGFzcw==</auth>`,
	},
	8: {
		node: stanza.NewSASLResponse([]byte{}),
		xml:  `<response xmlns="urn:ietf:params:xml:ns:xmpp-sasl">=</response>`,
	},
	9: {
		node: stanza.NewResourceBind(" balcony "),
		xml:  `<bind xmlns="urn:ietf:params:xml:ns:xmpp-bind"><resource>balcony</resource></bind>`,
	},
	10: {
		node: stanza.NewResourceBind(""),
		xml:  `<bind xmlns="urn:ietf:params:xml:ns:xmpp-bind"/>`,
	},
	11: {
		node: withChild(
			stanza.IQ.Create(stanza.Pairs("type", "set", "id", "1")...),
			withChild(
				stanza.RosterQuery.Create(),
				withChild(
					stanza.RosterItem.Create(stanza.Pairs("jid", "romeo@example.net", "name", "Romeo")...),
					stanza.RosterGroup.CreateText("Friends"),
				),
			),
		),
		xml: `<iq type="set" id="1"><query xmlns="jabber:iq:roster"><item jid="romeo@example.net" name="Romeo"><group>Friends</group></item></query></iq>`,
	},
	12: {
		node: withChild(
			stanza.StreamError.Create(),
			stanza.StreamConditions["host-unknown"].Create(),
		),
		xml: `<stream:error><host-unknown xmlns="urn:ietf:params:xml:ns:xmpp-streams"/></stream:error>`,
	},
	13: {
		node: withChild(
			stanza.Presence.Create(stanza.Pairs("from", "a@b/c")...),
			stanza.PresenceDelay.Create(stanza.Pairs("stamp", "2002-09-10T23:08:25Z")...),
			stanza.PresencePriority.CreateText("10"),
		),
		xml: `<presence from="a@b/c"><delay stamp="2002-09-10T23:08:25Z" xmlns="urn:xmpp:delay"/><priority>10</priority></presence>`,
	},
}

func TestSerialize(t *testing.T) {
	for i, tc := range serializeTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			if out := tc.node.ToXML(); out != tc.xml {
				t.Errorf("wrong output:\nwant=%s,\n got=%s", tc.xml, out)
			}
			if out := tc.node.String(); out != tc.xml {
				t.Errorf("String does not match ToXML:\nwant=%s,\n got=%s", tc.xml, out)
			}
			var buf bytes.Buffer
			n, err := tc.node.WriteTo(&buf)
			if err != nil {
				t.Fatalf("unexpected error writing node: %v", err)
			}
			if int(n) != len(tc.xml) || buf.String() != tc.xml {
				t.Errorf("wrong WriteTo output: want=%s, got=%s (%d)", tc.xml, buf.String(), n)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for i, tc := range serializeTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			parsed, err := stanza.ParseString(tc.xml)
			if err != nil {
				t.Fatalf("error parsing %s: %v", tc.xml, err)
			}
			if out := parsed.ToXML(); out != tc.xml {
				t.Errorf("round trip changed output:\nwant=%s,\n got=%s", tc.xml, out)
			}
			if parsed.Kind() != tc.node.Kind() {
				t.Errorf("round trip changed kind: want=%s, got=%s", tc.node.Kind(), parsed.Kind())
			}
		})
	}
}

func TestTokenReader(t *testing.T) {
	for i, tc := range [...]struct {
		node *stanza.Node
		xml  string
	}{
		0: {
			node: stanza.NewMessage("hi", stanza.Pairs("to", "juliet@example.com")...),
			xml:  `<message to="juliet@example.com" type="chat"><body>hi</body></message>`,
		},
		1: {
			node: stanza.StartTLS.Create(),
			xml:  `<starttls xmlns="urn:ietf:params:xml:ns:xmpp-tls"></starttls>`,
		},
		2: {
			node: stanza.NewClientStream("domain.im", false),
			xml:  `<stream:stream to="domain.im" version="1.0" xmlns="jabber:client" xmlns:stream="http://etherx.jabber.org/streams">`,
		},
	} {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			var buf strings.Builder
			e := xml.NewEncoder(&buf)
			if _, err := tc.node.WriteXML(e); err != nil {
				t.Fatalf("error writing tokens: %v", err)
			}
			if err := e.Flush(); err != nil {
				t.Fatalf("error flushing: %v", err)
			}
			if out := buf.String(); out != tc.xml {
				t.Errorf("wrong output:\nwant=%s,\n got=%s", tc.xml, out)
			}
		})
	}
}

func TestAppendClosed(t *testing.T) {
	n := stanza.Message.Create()
	n.Close()
	for i := 0; i < 3; i++ {
		err := n.Append(stanza.MessageBody.Create())
		if !errors.Is(err, stanza.ErrClosed) {
			t.Fatalf("attempt %d: expected ErrClosed, got %v", i, err)
		}
		var closedErr *stanza.ClosedNodeError
		if !errors.As(err, &closedErr) || closedErr.Tag != "message" {
			t.Fatalf("attempt %d: expected a closed node error for message, got %#v", i, err)
		}
	}
	if len(n.Children()) != 0 {
		t.Errorf("closed node gained children: %v", n.Children())
	}

	single := stanza.ProceedTLS.Create()
	if !single.Closed() {
		t.Error("expected single node to be closed from construction")
	}
	if err := single.Append(stanza.Message.Create()); !errors.Is(err, stanza.ErrClosed) {
		t.Errorf("expected appending to single node to fail with ErrClosed, got %v", err)
	}
}

func TestUnknownKeepsTag(t *testing.T) {
	const in = `<foo:bar xmlns:foo="urn:example" a="b"><baz>1</baz></foo:bar>`
	n, err := stanza.ParseString(in)
	if err != nil {
		t.Fatalf("error parsing: %v", err)
	}
	if n.Kind() != stanza.Unknown {
		t.Errorf("expected unknown kind, got %s", n.Kind())
	}
	if n.Tag() != "foo:bar" || n.Local() != "bar" || n.Space() != "urn:example" {
		t.Errorf("unexpected name: tag=%q local=%q space=%q", n.Tag(), n.Local(), n.Space())
	}
	if out := n.ToXML(); out != in {
		t.Errorf("unknown node did not serialize unchanged:\nwant=%s,\n got=%s", in, out)
	}
}

func TestParseErrors(t *testing.T) {
	for i, in := range [...]string{
		0: ``,
		1: `<message>`,
		2: `<message></presence>`,
		3: `<a/><b/>`,
		4: `<stream:stream xmlns:stream="http://etherx.jabber.org/streams"><message>`,
	} {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			if _, err := stanza.ParseString(in); err == nil {
				t.Errorf("expected an error parsing %q", in)
			}
		})
	}
}

func TestParseWhitespace(t *testing.T) {
	n, err := stanza.ParseString("<?xml version='1.0'?>\n<message>\n  <body> hi </body>\n</message>")
	if err != nil {
		t.Fatalf("error parsing: %v", err)
	}
	if n.Value() != "" {
		t.Errorf("expected whitespace between children to be dropped, got %q", n.Value())
	}
	if body := n.Body(); body != " hi " {
		t.Errorf("wrong body: want=%q, got=%q", " hi ", body)
	}
}

func TestAttrs(t *testing.T) {
	n := stanza.IQ.Create(stanza.Pairs("type", "get", "id", "123")...)
	n.SetAttr("type", "result")
	n.SetAttr("to", "example.net")
	want := stanza.Pairs("type", "result", "id", "123", "to", "example.net")
	got := n.Attrs()
	if len(got) != len(want) {
		t.Fatalf("wrong attributes: want=%v, got=%v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("wrong attribute %d: want=%v, got=%v", i, want[i], got[i])
		}
	}
	if n.Type() != "result" || n.ID() != "123" || n.To() != "example.net" || n.From() != "" {
		t.Errorf("unexpected accessors: %s", n)
	}
	got[0].Value = "mutated"
	if n.Type() != "result" {
		t.Error("Attrs did not return a copy")
	}
}

func TestPairsPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected Pairs to panic with an odd number of arguments")
		}
	}()
	stanza.Pairs("a")
}

func TestAddText(t *testing.T) {
	for i, tc := range [...]struct {
		in        []string
		max       int
		out       string
		truncated bool
	}{
		0: {in: []string{"abc", "def"}, out: "abcdef"},
		1: {in: []string{"abc", "def"}, max: 4, out: "abcd", truncated: true},
		2: {in: []string{"abcd", "e"}, max: 4, out: "abcd", truncated: true},
		3: {in: []string{"ab", "é"}, max: 3, out: "ab", truncated: true},
		4: {in: []string{"ab", "cd"}, max: 4, out: "abcd"},
	} {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			n := stanza.MessageBody.Create()
			var truncated bool
			for _, s := range tc.in {
				if n.AddText(s, tc.max) {
					truncated = true
				}
			}
			if n.Value() != tc.out {
				t.Errorf("wrong value: want=%q, got=%q", tc.out, n.Value())
			}
			if truncated != tc.truncated {
				t.Errorf("wrong truncation report: want=%t, got=%t", tc.truncated, truncated)
			}
		})
	}
}

func TestEqualAndRemove(t *testing.T) {
	a := stanza.NewMessage("hi", stanza.Pairs("to", "a@b")...)
	b := stanza.NewMessage("hi", stanza.Pairs("to", "a@b")...)
	if !a.Equal(b) {
		t.Errorf("expected %s and %s to be equal", a, b)
	}
	body := b.Child(stanza.MessageBody)
	if !b.Remove(body) {
		t.Fatal("expected to remove body")
	}
	if b.Remove(body) {
		t.Error("removed body twice")
	}
	if a.Equal(b) {
		t.Errorf("expected %s and %s to differ", a, b)
	}
	var nilNode *stanza.Node
	if nilNode.Equal(a) || !nilNode.Equal(nil) {
		t.Error("unexpected nil equality")
	}
}
