// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"strings"

	"mellium.im/xmppcore/internal/attr"
	"mellium.im/xmppcore/stanza"
)

// BindResource requests that the server bind the resource name.
// If name is empty the stream's default resource name is requested.
// When the server responds the bound JID is recorded and published on the
// BoundJID signal.
// The id of the request is returned.
func (s *Stream) BindResource(name string) (string, error) {
	if name = strings.TrimSpace(name); name != "" {
		s.resource = name
	}
	id := attr.RandomID()
	iq := stanza.IQ.Create(stanza.Pairs("type", "set", "id", id)...)
	if err := iq.Append(stanza.NewResourceBind(s.resource)); err != nil {
		return "", err
	}
	return id, s.Send(iq)
}
