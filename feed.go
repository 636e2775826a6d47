// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"mellium.im/xmppcore/internal/decl"
	"mellium.im/xmppcore/stanza"
	"mellium.im/xmppcore/stream"
)

var (
	errUnmatched   = errors.New("xmpp: end tag does not match an open element")
	errEmptyStream = errors.New("xmpp: empty stream element")
)

// Feed passes data read from the connection to the stream.
//
// Data may be split at any byte; elements that are not yet complete are kept
// until the rest of them arrives.
// Feeding an empty chunk does nothing, and neither does feeding data that
// contains nothing but whitespace (or an XML declaration) between stanzas.
// A stream header that a peer would reject publishes the matching stream error
// node on the Error signal after the Open signal.
// Every node that is completed by the data is routed before Feed returns, in
// the order in which the nodes were closed.
func (s *Stream) Feed(p []byte) {
	s.FeedString(string(p))
}

// FeedString is like Feed but takes a string.
func (s *Stream) FeedString(data string) {
	if data == "" {
		return
	}
	if s.pending == "" && s.atRoot() && decl.Trim(data) == "" {
		return
	}
	s.Events.Feed.Publish(data)
	s.pending += data
	for s.pending != "" {
		item, ok := s.next()
		if !ok {
			break
		}
		s.handle(item)
	}
	if s.maxTag > 0 && len(s.pending) > s.maxTag {
		s.log.WithField("len", len(s.pending)).Warn("xmpp: dropping oversized tag")
		s.unhandled(s.pending)
		s.pending = ""
	}
}

// atRoot reports whether no element other than the stream header is open.
func (s *Stream) atRoot() bool {
	switch len(s.stack) {
	case 0:
		return true
	case 1:
		return s.stack[0].Is(stanza.Stream)
	}
	return false
}

func (s *Stream) top() *stanza.Node {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// next removes the next complete markup item or run of character data from the
// pending input.
func (s *Stream) next() (string, bool) {
	buf := s.pending
	if buf[0] != '<' {
		i := strings.IndexByte(buf, '<')
		if i < 0 {
			i = textEnd(buf)
		}
		if i == 0 {
			return "", false
		}
		s.pending = buf[i:]
		return buf[:i], true
	}
	i := markupEnd(buf)
	if i < 0 {
		return "", false
	}
	s.pending = buf[i:]
	return buf[:i], true
}

// textEnd returns the length of the prefix of text that does not end in an
// incomplete entity reference.
func textEnd(text string) int {
	amp := strings.LastIndexByte(text, '&')
	if amp >= 0 && strings.IndexByte(text[amp:], ';') < 0 {
		return amp
	}
	return len(text)
}

// markupEnd returns the length of the markup item at the start of buf or -1 if
// the item is not complete.
func markupEnd(buf string) int {
	switch {
	case strings.HasPrefix(buf, "<!--"):
		return endAfter(buf, 4, "-->")
	case strings.HasPrefix(buf, "<![CDATA["):
		return endAfter(buf, 9, "]]>")
	case strings.HasPrefix(buf, "<?"):
		return endAfter(buf, 2, "?>")
	case strings.HasPrefix(buf, "<!"):
		depth := 0
		for i := 2; i < len(buf); i++ {
			switch buf[i] {
			case '[':
				depth++
			case ']':
				depth--
			case '>':
				if depth <= 0 {
					return i + 1
				}
			}
		}
		return -1
	}
	var quote byte
	for i := 1; i < len(buf); i++ {
		c := buf[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i + 1
		}
	}
	return -1
}

func endAfter(buf string, start int, term string) int {
	i := strings.Index(buf[start:], term)
	if i < 0 {
		return -1
	}
	return start + i + len(term)
}

func (s *Stream) handle(item string) {
	switch {
	case strings.HasPrefix(item, "<![CDATA["):
		s.text(item[len("<![CDATA[") : len(item)-len("]]>")])
		return
	case strings.HasPrefix(item, "<!"), strings.HasPrefix(item, "<?"):
		// Comments, processing instructions, and DTDs carry nothing we use.
		return
	}
	err := s.apply(item)
	if err == nil {
		return
	}
	s.log.WithError(err).Debug("xmpp: parse error, resetting parser")
	s.resetParser()
	if err = s.apply(item); err != nil {
		s.log.WithError(err).WithField("xml", item).Warn("xmpp: unhandled XML")
		s.unhandled(item)
	}
}

// resetParser drops every open element other than the stream header.
func (s *Stream) resetParser() {
	if len(s.stack) > 0 && s.stack[0].Is(stanza.Stream) {
		s.stack = s.stack[:1]
		return
	}
	s.stack = nil
}

func (s *Stream) unhandled(item string) {
	s.Events.UnhandledXML.Publish(item)
}

// apply decodes a single item and applies it to the element stack.
// Errors are always returned before the stack is modified.
func (s *Stream) apply(item string) error {
	toks, err := decodeItem(item)
	if err != nil {
		return err
	}
	for i, tok := range toks {
		switch t := tok.(type) {
		case xml.StartElement:
			selfClosing := false
			if i+1 < len(toks) {
				_, selfClosing = toks[i+1].(xml.EndElement)
			}
			if err = s.start(t, selfClosing); err != nil {
				return err
			}
		case xml.EndElement:
			if err = s.end(t); err != nil {
				return err
			}
		case xml.CharData:
			s.text(string(t))
		}
	}
	return nil
}

// decodeItem tokenizes item with a new decoder.
// Names are not namespace-resolved so that prefixes are kept.
func decodeItem(item string) ([]xml.Token, error) {
	d := xml.NewDecoder(strings.NewReader(item))
	var toks []xml.Token
	for {
		tok, err := d.RawToken()
		switch {
		case err == io.EOF:
			return toks, nil
		case err != nil:
			return nil, err
		}
		toks = append(toks, xml.CopyToken(tok))
	}
}

func rawTag(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

func (s *Stream) start(t xml.StartElement, selfClosing bool) error {
	parent := s.top()
	n := stanza.FromStart(t, parent)
	if n.Is(stanza.Stream) {
		if selfClosing {
			return errEmptyStream
		}
		n = stanza.FromStart(t, nil)
		s.stack = []*stanza.Node{n}
		s.node = n
		var info stream.Info
		infoErr := info.FromNode(n)
		s.info = info
		if s.state != Closed {
			s.setState(Open)
		}
		s.Events.Open.Publish(n)
		if infoErr != nil {
			s.invalidHeader(infoErr)
		}
		return nil
	}
	if parent != nil {
		if err := parent.Append(n); err != nil {
			s.log.WithError(err).Debug("xmpp: dropping child of closed node")
		}
	}
	s.stack = append(s.stack, n)
	return nil
}

func (s *Stream) end(t xml.EndElement) error {
	tag := rawTag(t.Name)
	if tag == stanza.Stream.Tag || s.node != nil && tag == s.node.Tag() {
		s.closeStream()
		return nil
	}
	for i := len(s.stack) - 1; i >= 0; i-- {
		n := s.stack[i]
		if n.Tag() != tag {
			continue
		}
		if n.Is(stanza.Stream) {
			s.closeStream()
			return nil
		}
		// Anything left open above the matching element is closed with it.
		for j := len(s.stack) - 1; j >= i; j-- {
			s.stack[j].Close()
		}
		s.stack = s.stack[:i]
		s.closed(n)
		return nil
	}
	return errUnmatched
}

// closed routes n if it was closed in the context it is declared to nest in,
// directly under the stream header, or as a document root.
func (s *Stream) closed(n *stanza.Node) {
	top := s.top()
	parent := n.Kind().Parent
	if top != nil && !top.Is(stanza.Stream) && (parent == nil || top.Kind() != parent) {
		return
	}
	s.route(n)
	if top != nil && top.Is(stanza.Stream) && !n.Is(stanza.StreamFeatures) {
		top.Remove(n)
	}
}

// invalidHeader routes the stream error a peer would reject the header with as
// if it had been received.
func (s *Stream) invalidHeader(err error) {
	s.log.WithError(err).Warn("xmpp: invalid stream header")
	var e stream.Error
	if !errors.As(err, &e) {
		e = stream.BadFormat
	}
	s.route(e.Node())
}

func (s *Stream) closeStream() {
	s.stack = nil
	if s.node == nil {
		return
	}
	s.node.Close()
	s.setState(Closed)
	s.Events.Closed.Publish(s.node)
}

func (s *Stream) text(data string) {
	top := s.top()
	if top == nil || top.Is(stanza.Stream) {
		return
	}
	if top.AddText(data, s.maxText) {
		s.log.WithField("tag", top.Tag()).Debug("xmpp: truncated text")
	}
}
