// Copyright 2020 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stream_test

import (
	"errors"
	"strconv"
	"testing"

	"golang.org/x/text/language"

	"mellium.im/xmppcore/jid"
	"mellium.im/xmppcore/stanza"
	"mellium.im/xmppcore/stream"
)

var infoTests = [...]struct {
	header string
	info   stream.Info
	err    error
}{
	0: {
		header: `<stream:stream xmlns="jabber:client" xmlns:stream="http://etherx.jabber.org/streams" from="example.net" id="abc" version="1.0" xml:lang="en">`,
		info: stream.Info{
			XMLNS:   "jabber:client",
			From:    jid.MustParse("example.net"),
			ID:      "abc",
			Version: stream.DefaultVersion,
			Lang:    language.English,
		},
	},
	1: {
		header: `<stream:stream xmlns="jabber:component:accept" xmlns:stream="http://etherx.jabber.org/streams" to="me@example.net" id="1234">`,
		info: stream.Info{
			XMLNS: "jabber:component:accept",
			To:    jid.MustParse("me@example.net"),
			ID:    "1234",
		},
	},
	2: {
		header: `<stream:stream xmlns="jabber:client" xmlns:stream="http://etherx.jabber.org/streams" from="@bad">`,
		err:    stream.ImproperAddressing,
	},
	3: {
		header: `<stream:stream xmlns="urn:example" xmlns:stream="http://etherx.jabber.org/streams">`,
		err:    stream.InvalidNamespace,
	},
	4: {
		header: `<stream:stream xmlns="jabber:client" xmlns:stream="http://etherx.jabber.org/streams" version="one">`,
		err:    stream.BadFormat,
	},
	5: {
		header: `<iq xmlns="jabber:client" type="get"></iq>`,
		err:    stream.BadFormat,
	},
}

func TestInfoFromNode(t *testing.T) {
	for i, tc := range infoTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			n, err := stanza.ParseString(tc.header)
			if err != nil {
				t.Fatalf("error parsing header: %v", err)
			}
			var info stream.Info
			err = info.FromNode(n)
			if !errors.Is(err, tc.err) {
				t.Fatalf("wrong error: want=%v, got=%v", tc.err, err)
			}
			if err != nil {
				return
			}
			if info.XMLNS != tc.info.XMLNS {
				t.Errorf("wrong namespace: want=%q, got=%q", tc.info.XMLNS, info.XMLNS)
			}
			if !info.To.Equal(tc.info.To) {
				t.Errorf("wrong to: want=%v, got=%v", tc.info.To, info.To)
			}
			if !info.From.Equal(tc.info.From) {
				t.Errorf("wrong from: want=%v, got=%v", tc.info.From, info.From)
			}
			if info.ID != tc.info.ID {
				t.Errorf("wrong id: want=%q, got=%q", tc.info.ID, info.ID)
			}
			if info.Version != tc.info.Version {
				t.Errorf("wrong version: want=%v, got=%v", tc.info.Version, info.Version)
			}
			if info.Lang != tc.info.Lang {
				t.Errorf("wrong language: want=%v, got=%v", tc.info.Lang, info.Lang)
			}
		})
	}
}
