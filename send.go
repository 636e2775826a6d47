// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"mellium.im/xmppcore/internal/attr"
	"mellium.im/xmppcore/internal/decl"
	"mellium.im/xmppcore/jid"
	"mellium.im/xmppcore/stanza"
	"mellium.im/xmppcore/stream"
)

// DefaultPriority is the priority sent with presence when none is set.
const DefaultPriority = 10

// Send writes the serialized node to the connection.
func (s *Stream) Send(n *stanza.Node) error {
	return s.sendString(n.ToXML())
}

func (s *Stream) sendString(data string) error {
	if s.conn == nil {
		return ErrNotConnected
	}
	if s.debug {
		s.log.WithField("data", data).Debug("xmpp: send")
	}
	return s.conn.Send([]byte(data))
}

// SendError sends the stream error e and closes the stream as if by
// Close(false).
// The error element is written in namespaced form and does not rely on the
// stream prefix.
func (s *Stream) SendError(e stream.Error) error {
	if s.conn == nil {
		return ErrNotConnected
	}
	var b strings.Builder
	enc := xml.NewEncoder(&b)
	if _, err := e.WriteXML(enc); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	if err := s.sendString(b.String()); err != nil {
		return err
	}
	return s.Close(false)
}

// OpenClient sends an XML declaration and the header of a client stream
// addressed to domain.
func (s *Stream) OpenClient(domain string) error {
	return s.SendHeader(stanza.NewClientStream(domain, false))
}

// SendHeader sends an XML declaration followed by the stream header h.
// If the stream was created with a Language option and the header has no
// xml:lang attribute one is added.
func (s *Stream) SendHeader(h *stanza.Node) error {
	if _, ok := h.LookupAttr("xml:lang"); !ok && s.lang != language.Und {
		h.SetAttr("xml:lang", s.lang.String())
	}
	return s.sendString(decl.XMLHeader + h.ToXML())
}

// StartTLS asks the server to upgrade the connection.
func (s *Stream) StartTLS() error {
	return s.Send(stanza.StartTLS.Create())
}

// PresenceOptions are the values used by SendPresence.
type PresenceOptions struct {
	// From defaults to the bound JID.
	From jid.JID
	To   jid.JID
	Type string

	// Delay, if set, is sent as a delayed delivery timestamp (XEP-0203).
	Delay time.Time

	// Priority defaults to DefaultPriority.
	// If OmitPriority is set no priority is sent.
	Priority     int
	OmitPriority bool
}

// SendPresence sends a presence stanza.
// If opts has no from address and the stream has no bound JID, ErrMissingJID
// is returned and nothing is written.
func (s *Stream) SendPresence(opts PresenceOptions) error {
	from := opts.From
	if from.IsZero() {
		from = s.boundJID
	}
	if from.IsZero() {
		return ErrMissingJID
	}
	p := stanza.Presence.Create(stanza.Attr{Name: "from", Value: from.String()})
	if !opts.To.IsZero() {
		p.SetAttr("to", opts.To.String())
	}
	if opts.Type != "" {
		p.SetAttr("type", opts.Type)
	}
	if !opts.OmitPriority {
		priority := opts.Priority
		if priority == 0 {
			priority = DefaultPriority
		}
		if err := p.Append(stanza.PresencePriority.CreateText(strconv.Itoa(priority))); err != nil {
			return err
		}
	}
	if !opts.Delay.IsZero() {
		delay := stanza.PresenceDelay.Create(stanza.Pairs(
			"from", from.String(),
			"stamp", opts.Delay.UTC().Format(time.RFC3339),
		)...)
		if err := p.Append(delay); err != nil {
			return err
		}
	}
	return s.Send(p)
}

// SendMessage sends a chat message with the provided body to to.
// Additional attributes, such as a different type, may be provided.
func (s *Stream) SendMessage(text string, to jid.JID, attrs ...stanza.Attr) error {
	a := make([]stanza.Attr, 0, len(attrs)+2)
	a = append(a, stanza.Attr{Name: "to", Value: to.String()})
	if !s.boundJID.IsZero() {
		a = append(a, stanza.Attr{Name: "from", Value: s.boundJID.String()})
	}
	a = append(a, attrs...)
	return s.Send(stanza.NewMessage(text, a...))
}

// AddContact sends a subscription request to contact and adds it to the
// roster in the provided groups.
// If from is the zero JID the bound JID is used.
func (s *Stream) AddContact(contact, from jid.JID, groups ...string) error {
	if from.IsZero() {
		from = s.boundJID
	}
	if from.IsZero() {
		return ErrMissingJID
	}
	err := s.Send(stanza.Presence.Create(stanza.Pairs(
		"from", from.String(),
		"to", contact.Bare().String(),
		"type", "subscribe",
	)...))
	if err != nil {
		return err
	}

	item := stanza.RosterItem.Create(stanza.Attr{Name: "jid", Value: contact.Bare().String()})
	for _, g := range groups {
		if err = item.Append(stanza.RosterGroup.CreateText(g)); err != nil {
			return err
		}
	}
	query := stanza.RosterQuery.Create()
	iq := stanza.IQ.Create(stanza.Pairs(
		"from", from.String(),
		"type", "set",
		"id", attr.RandomID(),
	)...)
	if err = query.Append(item); err != nil {
		return err
	}
	if err = iq.Append(query); err != nil {
		return err
	}
	return s.Send(iq)
}
