// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"sort"
)

func init() {
	Register(
		Stream, StreamFeatures,
		StartTLS, ProceedTLS,
		IQRegister,
		ResourceBind, BindResource, BoundJID, BindRequired, BindOptional,
		Session, SessionRequired, SessionOptional,
		RosterVersioning,

		SASLMechanisms, SASLMechanism,
		SASLAuth, SASLChallenge, SASLResponse, SASLSuccess, SASLAbort,
		SASLFailure, SASLText,

		Message, MessageBody, MessageSubject, MessageThread, MessageDelay,
		ChatStateActive, ChatStateComposing, ChatStatePaused, ChatStateInactive,
		ChatStateGone,
		Presence, PresenceShow, PresenceStatus, PresencePriority, PresenceDelay,
		EntityCapability, VCardUpdate, VCardPhoto,
		IQ, VCard, RosterQuery, RosterItem, RosterGroup,

		StanzaError, StanzaText,
		StreamError, StreamErrorText,
	)
	registerConditions(SASLConditions)
	registerConditions(StanzaConditions)
	registerConditions(StreamConditions)
}

func registerConditions(m map[string]*Kind) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		Register(m[name])
	}
}
