// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"encoding/base64"
	"strings"

	"mellium.im/xmppcore/internal/ns"
)

// SASL negotiation kinds (RFC 6120 §6).
var (
	SASLMechanisms = &Kind{
		Name:   "SASLMechanisms",
		Tag:    "mechanisms",
		Space:  ns.SASL,
		Parent: StreamFeatures,
	}
	SASLMechanism = &Kind{
		Name:       "SASLMechanism",
		Tag:        "mechanism",
		Space:      ns.SASL,
		Namespaces: inherit,
		Single:     true,
		Parent:     SASLMechanisms,
	}
	SASLAuth = &Kind{
		Name:  "SASLAuth",
		Tag:   "auth",
		Space: ns.SASL,
	}
	SASLChallenge = &Kind{
		Name:  "SASLChallenge",
		Tag:   "challenge",
		Space: ns.SASL,
	}
	SASLResponse = &Kind{
		Name:  "SASLResponse",
		Tag:   "response",
		Space: ns.SASL,
	}
	SASLSuccess = &Kind{
		Name:  "SASLSuccess",
		Tag:   "success",
		Space: ns.SASL,
	}
	SASLAbort = &Kind{
		Name:   "SASLAbort",
		Tag:    "abort",
		Space:  ns.SASL,
		Single: true,
	}
	SASLFailure = &Kind{
		Name:  "SASLFailure",
		Tag:   "failure",
		Space: ns.SASL,
		Error: true,
	}
	SASLText = &Kind{
		Name:       "SASLText",
		Tag:        "text",
		Space:      ns.SASL,
		Namespaces: inherit,
		Parent:     SASLFailure,
	}
)

// SASLConditions are the SASL failure conditions defined in RFC 6120 §6.5
// keyed by local name.
var SASLConditions = conditionKinds("SASL", ns.SASL, SASLFailure,
	"aborted",
	"account-disabled",
	"credentials-expired",
	"encryption-required",
	"incorrect-encoding",
	"invalid-authzid",
	"invalid-mechanism",
	"malformed-request",
	"mechanism-too-weak",
	"not-authorized",
	"temporary-auth-failure",
)

// NewSASLAuth returns an authentication request for the provided mechanism.
// A nil payload sends no initial response, an empty payload sends an empty one.
func NewSASLAuth(mechanism string, payload []byte) *Node {
	n := SASLAuth.Create(Attr{Name: "mechanism", Value: mechanism})
	n.value = encodeSASL(payload)
	return n
}

// NewSASLResponse returns a response to a SASL challenge.
func NewSASLResponse(payload []byte) *Node {
	return SASLResponse.CreateText(encodeSASL(payload))
}

func encodeSASL(payload []byte) string {
	switch {
	case payload == nil:
		return ""
	case len(payload) == 0:
		return "="
	}
	return base64.StdEncoding.EncodeToString(payload)
}

// SupportedMechanisms returns the mechanism names listed by a SASL mechanisms
// node.
func (n *Node) SupportedMechanisms() []string {
	var mechs []string
	for _, c := range n.children {
		if v := strings.TrimSpace(c.value); v != "" {
			mechs = append(mechs, v)
		}
	}
	return mechs
}

// Decoded returns the base64 decoded character data of a SASL challenge,
// response, or success node.
// An empty payload ("=") decodes to an empty, non-nil slice.
func (n *Node) Decoded() ([]byte, error) {
	v := strings.TrimSpace(n.value)
	if v == "=" || v == "" {
		return []byte{}, nil
	}
	return base64.StdEncoding.DecodeString(v)
}
