// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Default limits used by the incremental parser.
const (
	DefaultMaxTextLength = 1 << 20
	DefaultMaxTagLength  = 64 << 10
)

// Option configures a stream.
type Option func(*Stream)

// Logger sets the logger used by the stream and its signals.
// By default the logrus standard logger is used.
func Logger(l logrus.FieldLogger) Option {
	return func(s *Stream) {
		s.log = l
	}
}

// Debug raises the level of the stream's logger to debug (if it is a logrus
// Logger or Entry) and logs every chunk of data that is fed to the stream and
// every node that is routed.
func Debug() Option {
	return func(s *Stream) {
		s.debug = true
	}
}

// MaxTextLength limits the amount of character data kept for a single node.
// Longer text is truncated.
// A value less than or equal to zero disables the limit.
func MaxTextLength(n int) Option {
	return func(s *Stream) {
		s.maxText = n
	}
}

// MaxTagLength limits the amount of data buffered while waiting for the end of
// a single tag.
// When the limit is exceeded the buffered data is reported as unhandled and
// dropped.
func MaxTagLength(n int) Option {
	return func(s *Stream) {
		s.maxTag = n
	}
}

// Extensions sets the protocol extensions instantiated for the stream.
// It panics if a plugin has an invalid XEP number or if two plugins use the
// same number.
func Extensions(p ...Plugin) Option {
	return func(s *Stream) {
		for _, plugin := range p {
			plugin.validate()
			for _, existing := range s.plugins {
				if existing.XEP == plugin.XEP {
					panic("xmpp: multiple plugins registered for XEP-" + plugin.XEP)
				}
			}
			s.plugins = append(s.plugins, plugin)
		}
	}
}

// Language sets the xml:lang attribute sent on stream headers.
func Language(tag language.Tag) Option {
	return func(s *Stream) {
		s.lang = tag
	}
}

func setDebugLevel(l logrus.FieldLogger) {
	switch log := l.(type) {
	case *logrus.Logger:
		log.SetLevel(logrus.DebugLevel)
	case *logrus.Entry:
		log.Logger.SetLevel(logrus.DebugLevel)
	}
}
