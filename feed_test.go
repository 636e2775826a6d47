// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/text/language"

	xmpp "mellium.im/xmppcore"
	"mellium.im/xmppcore/event"
	"mellium.im/xmppcore/internal/xmpptest"
	"mellium.im/xmppcore/stanza"
	"mellium.im/xmppcore/stream"
)

const julietHeader = ` <stream:stream from="juliet@im.example.com" to="im.example.com" version="1.0" xml:lang="en" xmlns="jabber:client" xmlns:stream="http://etherx.jabber.org/streams"> `

func record[T any](sig *event.Signal[T]) *[]T {
	var got []T
	sig.SubscribeFunc(func(v T) error {
		got = append(got, v)
		return nil
	})
	return &got
}

func TestOpenAndClose(t *testing.T) {
	s, _ := xmpptest.NewStream()
	opened := record(s.Events.Open)
	closed := record(s.Events.Closed)

	s.FeedString(julietHeader)
	if s.State() != xmpp.Open {
		t.Fatalf("wrong state after header: want=%v, got=%v", xmpp.Open, s.State())
	}
	if len(*opened) != 1 {
		t.Fatalf("wrong number of open signals: want=1, got=%d", len(*opened))
	}
	header := (*opened)[0]
	if !header.Is(stanza.Stream) || header != s.StreamNode() {
		t.Fatalf("open signal did not carry the stream node: %v", header)
	}
	if from := header.Attr("from"); from != "juliet@im.example.com" {
		t.Errorf("wrong from attribute: %q", from)
	}

	s.FeedString("</stream:stream>")
	if s.State() != xmpp.Closed {
		t.Fatalf("wrong state after closing tag: want=%v, got=%v", xmpp.Closed, s.State())
	}
	if len(*closed) != 1 || (*closed)[0] != header {
		t.Fatalf("closed signal did not carry the stream node: %v", *closed)
	}

	// Closed is absorbing until the stream is reset.
	s.FeedString(julietHeader)
	s.HandleWritable()
	if s.State() != xmpp.Closed {
		t.Errorf("stream left the closed state: %v", s.State())
	}
}

func TestCloseWithoutStream(t *testing.T) {
	s, _ := xmpptest.NewStream()
	closed := record(s.Events.Closed)
	unhandled := record(s.Events.UnhandledXML)
	s.FeedString("</stream:stream>")
	if len(*closed) != 0 || len(*unhandled) != 0 {
		t.Errorf("closing a stream that was never opened should do nothing")
	}
	if s.State() != xmpp.Idle {
		t.Errorf("wrong state: want=%v, got=%v", xmpp.Idle, s.State())
	}
}

var noopFeeds = [...]string{
	0: "",
	1: " ",
	2: "\n\t  \r\n",
	3: `<?xml version="1.0" encoding="UTF-8"?>`,
}

func TestNoopFeeds(t *testing.T) {
	for i, data := range noopFeeds {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			for _, open := range []bool{false, true} {
				s, _ := xmpptest.NewStream()
				if open {
					xmpptest.OpenStream(s)
				}
				before := s.State()
				fed := record(s.Events.Feed)
				nodes := record(s.Events.Node)
				unhandled := record(s.Events.UnhandledXML)
				s.FeedString(data)
				s.Feed([]byte(data))
				if s.State() != before {
					t.Errorf("state changed from %v to %v", before, s.State())
				}
				if len(*fed) != 0 || len(*nodes) != 0 || len(*unhandled) != 0 {
					t.Errorf("signals were published for a no-op feed")
				}
			}
		})
	}
}

func TestEmptyChunkInsideStanza(t *testing.T) {
	s, _ := xmpptest.NewStream()
	xmpptest.OpenStream(s)
	s.FeedString(`<message type="chat"><body>hi`)
	fed := record(s.Events.Feed)
	s.FeedString("")
	s.Feed(nil)
	if len(*fed) != 0 {
		t.Fatalf("empty chunks inside a stanza published %d feed signals", len(*fed))
	}
	msgs := record(s.Events.Message)
	s.FeedString(" there</body></message>")
	if len(*fed) != 1 {
		t.Errorf("wrong number of feed signals: want=1, got=%d", len(*fed))
	}
	if len(*msgs) != 1 || (*msgs)[0].Body() != "hi there" {
		t.Errorf("message was not completed after empty chunks: %v", *msgs)
	}
}

const chunkedMessage = `<message to="romeo@example.net" type="chat" id="a1"><body>Art thou not Romeo, &amp; a Montague?</body><active xmlns="http://jabber.org/protocol/chatstates"/></message>`

func TestChunkedFeedEmitsOnce(t *testing.T) {
	for size := 1; size <= len(chunkedMessage); size++ {
		t.Run(strconv.Itoa(size), func(t *testing.T) {
			s, _ := xmpptest.NewStream()
			xmpptest.OpenStream(s)
			msgs := record(s.Events.Message)
			xmpptest.FeedChunks(s, chunkedMessage, size)
			if len(*msgs) != 1 {
				t.Fatalf("wrong number of messages: want=1, got=%d", len(*msgs))
			}
			msg := (*msgs)[0]
			if body := msg.Body(); body != "Art thou not Romeo, & a Montague?" {
				t.Errorf("wrong body: %q", body)
			}
			children := msg.Children()
			if len(children) != 2 || !children[0].Is(stanza.MessageBody) || !children[1].Is(stanza.ChatStateActive) {
				t.Errorf("children out of order: %v", msg)
			}
			if !msg.IsActive() {
				t.Errorf("expected active chat state")
			}
		})
	}
}

func TestDocumentOrder(t *testing.T) {
	s, _ := xmpptest.NewStream()
	xmpptest.OpenStream(s)
	var order []string
	s.Events.Node.SubscribeFunc(func(n *stanza.Node) error {
		if n.Kind().Parent == stanza.Stream {
			order = append(order, n.ID())
		}
		return nil
	})
	s.FeedString(`<presence id="1"/><message id="2"><body>x</body></message><iq id="3" type="get"><query xmlns="jabber:iq:roster"/></iq>`)
	if got := strings.Join(order, ","); got != "1,2,3" {
		t.Errorf("nodes routed out of order: %s", got)
	}
}

func TestSASLSupport(t *testing.T) {
	s, _ := xmpptest.NewStream()
	xmpptest.OpenStream(s)
	support := record(s.Events.SASLSupport)
	bind := record(s.Events.BindSupport)
	s.FeedString(xmpptest.Features)

	if len(*support) != 1 {
		t.Fatalf("wrong number of SASL support signals: want=1, got=%d", len(*support))
	}
	mechs := (*support)[0].SupportedMechanisms()
	if len(mechs) != 1 || mechs[0] != "SCRAM-SHA-1" {
		t.Errorf("wrong mechanisms: %v", mechs)
	}
	if len(*bind) != 1 {
		t.Errorf("wrong number of bind support signals: want=1, got=%d", len(*bind))
	}
	if m := s.StreamNode().SASLMechanisms(); len(m) != 1 || m[0] != "SCRAM-SHA-1" {
		t.Errorf("stream did not keep its features: %v", m)
	}
}

func TestUnknownNodeDropped(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	s, _ := xmpptest.NewStream(xmpp.Logger(log))
	xmpptest.OpenStream(s)
	nodes := record(s.Events.Node)
	s.FeedString(`<gopher xmlns="urn:example:gopher"><burrow/></gopher>`)
	if len(*nodes) != 0 {
		t.Errorf("unknown node was routed: %v", *nodes)
	}
	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.HasPrefix(e.Message, "no model defined for <gopher") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected a warning about the unknown node")
	}
	if n := len(s.StreamNode().Children()); n != 0 {
		t.Errorf("unknown node was kept on the stream: %d children", n)
	}
}

func TestMalformedInput(t *testing.T) {
	s, _ := xmpptest.NewStream()
	xmpptest.OpenStream(s)
	unhandled := record(s.Events.UnhandledXML)
	presence := record(s.Events.Presence)

	s.FeedString(`<presence type=unavailable/>`)
	if len(*unhandled) != 1 || (*unhandled)[0] != `<presence type=unavailable/>` {
		t.Fatalf("expected malformed tag to be reported once, got %q", *unhandled)
	}
	s.FeedString(`</nothing>`)
	if len(*unhandled) != 2 {
		t.Fatalf("expected unmatched end tag to be reported, got %q", *unhandled)
	}
	if s.State() != xmpp.Open {
		t.Errorf("malformed input changed the state: %v", s.State())
	}

	s.FeedString(`<presence type="unavailable"/>`)
	if len(*presence) != 1 {
		t.Errorf("stream did not recover after malformed input")
	}
}

func TestStreamError(t *testing.T) {
	s, _ := xmpptest.NewStream()
	xmpptest.OpenStream(s)
	errs := record(s.Events.Error)
	s.FeedString(`<stream:error><host-gone xmlns="urn:ietf:params:xml:ns:xmpp-streams"/><text xmlns="urn:ietf:params:xml:ns:xmpp-streams">bye</text></stream:error>`)
	if len(*errs) != 1 {
		t.Fatalf("wrong number of error signals: want=1, got=%d", len(*errs))
	}
	if cond := (*errs)[0].Condition(); cond != "host-gone" {
		t.Errorf("wrong condition: %q", cond)
	}
	if text := (*errs)[0].Text(); text != "bye" {
		t.Errorf("wrong text: %q", text)
	}
	if s.State() != xmpp.Open {
		t.Errorf("stream error should not change the state, got %v", s.State())
	}
}

func TestSkewedEndTag(t *testing.T) {
	s, _ := xmpptest.NewStream()
	xmpptest.OpenStream(s)
	errs := record(s.Events.Error)
	unhandled := record(s.Events.UnhandledXML)
	s.FeedString(`<stream:error><conflict xmlns="urn:ietf:params:xml:ns:xmpp-streams"><extra></stream:error>`)
	if len(*errs) != 1 {
		t.Fatalf("wrong number of error signals: want=1, got=%d", len(*errs))
	}
	if len(*unhandled) != 0 {
		t.Errorf("unexpected unhandled input: %q", *unhandled)
	}
	if cond := (*errs)[0].Condition(); cond != "conflict" {
		t.Errorf("wrong condition: %q", cond)
	}
}

var iqTypeTests = [...]struct {
	typ    string
	get    int
	set    int
	result int
	err    int
}{
	0: {typ: "get", get: 1},
	1: {typ: "set", set: 1},
	2: {typ: "result", result: 1},
	3: {typ: "error", err: 1},
	4: {typ: "bogus"},
}

func TestIQRouting(t *testing.T) {
	for i, tc := range iqTypeTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			s, _ := xmpptest.NewStream()
			xmpptest.OpenStream(s)
			get := record(s.Events.IQGet)
			set := record(s.Events.IQSet)
			result := record(s.Events.IQResult)
			iqErr := record(s.Events.IQError)
			s.FeedString(`<iq type="` + tc.typ + `" id="x"/>`)
			if len(*get) != tc.get || len(*set) != tc.set || len(*result) != tc.result || len(*iqErr) != tc.err {
				t.Errorf("wrong routing: get=%d set=%d result=%d error=%d", len(*get), len(*set), len(*result), len(*iqErr))
			}
		})
	}
}

func TestBoundJID(t *testing.T) {
	s, _ := xmpptest.NewStream()
	xmpptest.OpenStream(s)
	bound := record(s.Events.BoundJID)
	bindSupport := record(s.Events.BindSupport)
	results := record(s.Events.IQResult)
	s.FeedString(`<iq type="result" id="bind_1"><bind xmlns="urn:ietf:params:xml:ns:xmpp-bind"><jid>juliet@im.example.com/balcony</jid></bind></iq>`)

	if len(*bound) != 1 {
		t.Fatalf("wrong number of bound JID signals: want=1, got=%d", len(*bound))
	}
	if j := s.BoundJID().String(); j != "juliet@im.example.com/balcony" {
		t.Errorf("wrong bound JID: %q", j)
	}
	if !(*bound)[0].Equal(s.BoundJID()) {
		t.Errorf("signal carried a different JID: %v", (*bound)[0])
	}
	if len(*bindSupport) != 0 {
		t.Errorf("bind result should not be reported as bind support")
	}
	if len(*results) != 1 {
		t.Errorf("wrong number of IQ results: want=1, got=%d", len(*results))
	}
}

func TestSASLFailureClearsResult(t *testing.T) {
	s, _ := xmpptest.NewStream()
	xmpptest.OpenStream(s)
	s.FinishSASL()
	if !s.HasGoneThroughSASL() || s.State() != xmpp.Authenticated {
		t.Fatalf("FinishSASL did not authenticate the stream")
	}
	failures := record(s.Events.SASLFailure)
	errs := record(s.Events.Error)
	s.FeedString(`<failure xmlns="urn:ietf:params:xml:ns:xmpp-sasl"><not-authorized/></failure>`)
	if len(*failures) != 1 {
		t.Fatalf("wrong number of failures: want=1, got=%d", len(*failures))
	}
	if len(*errs) != 0 {
		t.Errorf("failure condition should not be reported as a separate error")
	}
	if s.HasGoneThroughSASL() {
		t.Errorf("failure should clear the SASL result")
	}
}

func TestTextTruncated(t *testing.T) {
	s, _ := xmpptest.NewStream(xmpp.MaxTextLength(5))
	xmpptest.OpenStream(s)
	msgs := record(s.Events.Message)
	s.FeedString(`<message><body>Hello`)
	s.FeedString(` world</body></message>`)
	if len(*msgs) != 1 {
		t.Fatalf("wrong number of messages: want=1, got=%d", len(*msgs))
	}
	if body := (*msgs)[0].Body(); body != "Hello" {
		t.Errorf("text was not truncated: %q", body)
	}
}

func TestOversizedTag(t *testing.T) {
	s, _ := xmpptest.NewStream(xmpp.MaxTagLength(16))
	xmpptest.OpenStream(s)
	unhandled := record(s.Events.UnhandledXML)
	s.FeedString(`<message to="` + strings.Repeat("a", 32))
	if len(*unhandled) != 1 {
		t.Fatalf("expected oversized tag to be reported, got %d", len(*unhandled))
	}
	msgs := record(s.Events.Message)
	s.FeedString(`<message><body>ok</body></message>`)
	if len(*msgs) != 1 {
		t.Errorf("stream did not recover after oversized tag")
	}
}

func TestCommentsAndCDATA(t *testing.T) {
	s, _ := xmpptest.NewStream()
	s.FeedString(`<?xml version="1.0"?><!-- hello -->`)
	xmpptest.OpenStream(s)
	msgs := record(s.Events.Message)
	s.FeedString(`<message><!-- a > b --><body><![CDATA[<b>bold</b>]]></body></message>`)
	if len(*msgs) != 1 {
		t.Fatalf("wrong number of messages: want=1, got=%d", len(*msgs))
	}
	if body := (*msgs)[0].Body(); body != "<b>bold</b>" {
		t.Errorf("wrong body: %q", body)
	}
}

func TestRoutedNodesArePruned(t *testing.T) {
	s, _ := xmpptest.NewStream()
	xmpptest.OpenStream(s)
	s.FeedString(xmpptest.Features)
	s.FeedString(`<message><body>1</body></message><presence/>`)
	children := s.StreamNode().Children()
	if len(children) != 1 || !children[0].Is(stanza.StreamFeatures) {
		t.Errorf("expected only the features to be kept, got %v", children)
	}
}

func TestStreamRestart(t *testing.T) {
	s, _ := xmpptest.NewStream()
	opened := record(s.Events.Open)
	xmpptest.OpenStream(s)
	s.FeedString(xmpptest.Features)
	s.FinishSASL()
	first := s.StreamNode()

	s.FeedString(strings.Replace(xmpptest.ClientHeader, `id="123"`, `id="456"`, 1))
	if len(*opened) != 2 {
		t.Fatalf("wrong number of open signals: want=2, got=%d", len(*opened))
	}
	if s.StreamNode() == first {
		t.Errorf("restart did not replace the stream node")
	}
	if s.ID() != "456" {
		t.Errorf("wrong stream id: %q", s.ID())
	}
	if s.State() != xmpp.Open || !s.HasGoneThroughSASL() {
		t.Errorf("unexpected state after restart: %v (sasl=%t)", s.State(), s.HasGoneThroughSASL())
	}
	if len(s.StreamNode().SASLMechanisms()) != 0 {
		t.Errorf("new stream should not have the old features")
	}
}

func TestSelfClosingStream(t *testing.T) {
	s, _ := xmpptest.NewStream()
	unhandled := record(s.Events.UnhandledXML)
	s.FeedString(`<stream:stream xmlns="jabber:client" xmlns:stream="http://etherx.jabber.org/streams"/>`)
	if s.State() != xmpp.Idle {
		t.Errorf("self-closing stream should not open the stream")
	}
	if len(*unhandled) != 1 {
		t.Errorf("expected self-closing stream to be reported")
	}
}

func TestNodesWithoutStream(t *testing.T) {
	s, _ := xmpptest.NewStream()
	msgs := record(s.Events.Message)
	s.FeedString(`<message><body>bare</body></message>`)
	if len(*msgs) != 1 {
		t.Fatalf("document root was not routed")
	}
	if s.State() != xmpp.Idle {
		t.Errorf("wrong state: %v", s.State())
	}
}

func TestStreamInfo(t *testing.T) {
	s, _ := xmpptest.NewStream()
	s.FeedString(julietHeader)
	info := s.Info()
	if info.From.String() != "juliet@im.example.com" || info.To.String() != "im.example.com" {
		t.Errorf("wrong addresses: from=%v, to=%v", info.From, info.To)
	}
	if info.XMLNS != "jabber:client" || info.Version != stream.DefaultVersion || info.Lang != language.English {
		t.Errorf("wrong header metadata: %+v", info)
	}
	s.Reset()
	if info := s.Info(); !info.From.IsZero() || info.XMLNS != "" {
		t.Errorf("reset should clear the header metadata: %+v", info)
	}
}

var invalidHeaderTests = [...]struct {
	header string
	cond   string
}{
	0: {
		header: `<stream:stream xmlns="urn:example" xmlns:stream="http://etherx.jabber.org/streams">`,
		cond:   "invalid-namespace",
	},
	1: {
		header: `<stream:stream version="one" xmlns="jabber:client" xmlns:stream="http://etherx.jabber.org/streams">`,
		cond:   "bad-format",
	},
	2: {
		header: `<stream:stream from="@bad" xmlns="jabber:client" xmlns:stream="http://etherx.jabber.org/streams">`,
		cond:   "improper-addressing",
	},
}

func TestInvalidHeader(t *testing.T) {
	for i, tc := range invalidHeaderTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			s, conn := xmpptest.NewStream()
			var order []string
			s.Events.Open.SubscribeFunc(func(*stanza.Node) error {
				order = append(order, "open")
				return nil
			})
			s.Events.Error.SubscribeFunc(func(n *stanza.Node) error {
				order = append(order, n.Condition())
				return nil
			})
			s.FeedString(tc.header)
			if len(order) != 2 || order[0] != "open" || order[1] != tc.cond {
				t.Errorf("wrong signals: want=[open %s], got=%v", tc.cond, order)
			}
			if s.State() != xmpp.Open {
				t.Errorf("wrong state: want=%v, got=%v", xmpp.Open, s.State())
			}
			if out := conn.Output(); out != "" {
				t.Errorf("nothing should be sent for an invalid header, got %q", out)
			}
		})
	}
}
