// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package attr

import (
	"encoding/hex"

	"github.com/pborman/uuid"
)

// IDLen is the standard length of stanza identifiers in bytes.
const IDLen = 16

// ResourcePrefix is prepended to generated resource names.
const ResourcePrefix = "xmpp-"

// RandomID generates a new random identifier of length IDLen.
// If the OS's entropy pool isn't initialized, or we can't generate random
// numbers for some other reason, panic.
func RandomID() string {
	return RandomLen(IDLen)
}

// RandomLen is like RandomID but the length is configurable.
func RandomLen(n int) string {
	return randomID(n, uuid.NewRandom)
}

// Resource returns a new random resource name.
func Resource() string {
	u := uuid.NewRandom()
	if u == nil {
		panic("attr: could not generate a random resource name")
	}
	return ResourcePrefix + u.String()
}

func randomID(n int, gen func() uuid.UUID) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, n+32)
	for len(b) < n {
		u := gen()
		if len(u) == 0 {
			panic("attr: could not read enough randomness")
		}
		b = append(b, hex.EncodeToString(u)...)
	}
	return string(b[:n])
}
