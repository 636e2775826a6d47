// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"strings"

	"mellium.im/xmppcore/internal/ns"
)

// Stanza kinds and their common payloads.
var (
	Message = &Kind{
		Name:   "Message",
		Tag:    "message",
		Parent: Stream,
	}
	MessageBody = &Kind{
		Name:   "MessageBody",
		Tag:    "body",
		Parent: Message,
	}
	MessageSubject = &Kind{
		Name:   "MessageSubject",
		Tag:    "subject",
		Parent: Message,
	}
	MessageThread = &Kind{
		Name:   "MessageThread",
		Tag:    "thread",
		Parent: Message,
	}
	MessageDelay = &Kind{
		Name:   "MessageDelay",
		Tag:    "delay",
		Space:  ns.LegacyDelay,
		Single: true,
		Parent: Message,
	}
	ChatStateActive    = chatState("ChatStateActive", "active")
	ChatStateComposing = chatState("ChatStateComposing", "composing")
	ChatStatePaused    = chatState("ChatStatePaused", "paused")
	ChatStateInactive  = chatState("ChatStateInactive", "inactive")
	ChatStateGone      = chatState("ChatStateGone", "gone")

	Presence = &Kind{
		Name:   "Presence",
		Tag:    "presence",
		Parent: Stream,
	}
	PresenceShow = &Kind{
		Name:   "PresenceShow",
		Tag:    "show",
		Parent: Presence,
	}
	PresenceStatus = &Kind{
		Name:   "PresenceStatus",
		Tag:    "status",
		Parent: Presence,
	}
	PresencePriority = &Kind{
		Name:   "PresencePriority",
		Tag:    "priority",
		Parent: Presence,
	}
	PresenceDelay = &Kind{
		Name:   "PresenceDelay",
		Tag:    "delay",
		Space:  ns.Delay,
		Single: true,
		Parent: Presence,
	}
	EntityCapability = &Kind{
		Name:   "EntityCapability",
		Tag:    "c",
		Space:  ns.Caps,
		Single: true,
		Parent: Presence,
	}
	VCardUpdate = &Kind{
		Name:   "VCardUpdate",
		Tag:    "x",
		Space:  ns.VCardUpdate,
		Parent: Presence,
	}
	VCardPhoto = &Kind{
		Name:       "VCardPhoto",
		Tag:        "photo",
		Space:      ns.VCardUpdate,
		Namespaces: inherit,
		Single:     true,
		Parent:     VCardUpdate,
	}

	IQ = &Kind{
		Name:   "IQ",
		Tag:    "iq",
		Parent: Stream,
	}
	VCard = &Kind{
		Name:   "VCard",
		Tag:    "vCard",
		Space:  ns.VCard,
		Parent: IQ,
	}
	RosterQuery = &Kind{
		Name:   "RosterQuery",
		Tag:    "query",
		Space:  ns.Roster,
		Parent: IQ,
	}
	RosterItem = &Kind{
		Name:       "RosterItem",
		Tag:        "item",
		Space:      ns.Roster,
		Namespaces: inherit,
		Parent:     RosterQuery,
	}
	RosterGroup = &Kind{
		Name:       "RosterGroup",
		Tag:        "group",
		Space:      ns.Roster,
		Namespaces: inherit,
		Parent:     RosterItem,
	}
)

func chatState(name, tag string) *Kind {
	return &Kind{
		Name:   name,
		Tag:    tag,
		Space:  ns.ChatStates,
		Single: true,
		Parent: Message,
	}
}

// NewMessage returns a message with the provided body.
// The type attribute defaults to "chat".
func NewMessage(text string, attrs ...Attr) *Node {
	n := Message.Create(attrs...)
	if _, ok := n.LookupAttr("type"); !ok {
		n.attrs = append(n.attrs, Attr{Name: "type", Value: "chat"})
	}
	if text != "" {
		n.mustAppend(MessageBody.CreateText(text))
	}
	return n
}

// Body returns the character data of every body child joined by newlines.
func (n *Node) Body() string {
	var parts []string
	for _, c := range n.children {
		if c.kind == MessageBody {
			parts = append(parts, c.value)
		}
	}
	return strings.Join(parts, "\n")
}

// AddBody appends text to the first body child, creating it if needed.
func (n *Node) AddBody(text string) error {
	if body := n.Child(MessageBody); body != nil {
		body.value += text
		return nil
	}
	return n.Append(MessageBody.CreateText(text))
}

// ChatStates returns the local names of every chat state notification in the
// node.
func (n *Node) ChatStates() []string {
	var states []string
	for _, c := range n.children {
		if c.space == ns.ChatStates {
			states = append(states, c.Local())
		}
	}
	return states
}

func (n *Node) hasChatState(state string) bool {
	for _, s := range n.ChatStates() {
		if s == state {
			return true
		}
	}
	return false
}

// SetComposing adds a composing chat state notification.
func (n *Node) SetComposing() error {
	return n.Append(ChatStateComposing.Create())
}

// SetActive adds an active chat state notification.
func (n *Node) SetActive() error {
	return n.Append(ChatStateActive.Create())
}

// SetPaused adds a paused chat state notification.
func (n *Node) SetPaused() error {
	return n.Append(ChatStatePaused.Create())
}

// IsComposing reports whether the node carries a composing notification.
func (n *Node) IsComposing() bool {
	return n.hasChatState("composing")
}

// IsActive reports whether the node carries an active notification.
func (n *Node) IsActive() bool {
	return n.hasChatState("active")
}

// IsPaused reports whether the node carries a paused notification.
func (n *Node) IsPaused() bool {
	return n.hasChatState("paused")
}

func (n *Node) childValue(k *Kind) string {
	if c := n.Child(k); c != nil {
		return c.value
	}
	return ""
}

// Show returns the availability of a presence.
func (n *Node) Show() string {
	return n.childValue(PresenceShow)
}

// Status returns the status text of a presence.
func (n *Node) Status() string {
	return n.childValue(PresenceStatus)
}

// Priority returns the priority of a presence as written.
func (n *Node) Priority() string {
	return n.childValue(PresencePriority)
}

// Delay returns the timestamp of the first delayed delivery child.
func (n *Node) Delay() string {
	for _, c := range n.children {
		if c.kind == PresenceDelay || c.kind == MessageDelay {
			return c.Attr("stamp")
		}
	}
	return ""
}
