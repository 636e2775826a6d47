// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package attr contains unexported functions for manipulating attributes and
// generating identifiers.
package attr // import "mellium.im/xmppcore/internal/attr"

import (
	"encoding/xml"
)

// Qualified returns the attribute name as written on the wire, including its
// prefix if any.
func Qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}
