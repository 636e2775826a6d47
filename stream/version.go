// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stream

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersion is returned when a version attribute cannot be parsed.
var ErrInvalidVersion = errors.New("stream: invalid version")

// DefaultVersion is the version advertised on stream headers.
var DefaultVersion = Version{Major: 1, Minor: 0}

// Version is the value of the version attribute of a stream header.
type Version struct {
	Major uint8
	Minor uint8
}

// ParseVersion parses a version of the form "major.minor".
// Errors unwrap to ErrInvalidVersion.
func ParseVersion(s string) (Version, error) {
	maj, min, ok := strings.Cut(s, ".")
	if !ok {
		return Version{}, fmt.Errorf("%w %q: missing separator", ErrInvalidVersion, s)
	}
	major, err := strconv.ParseUint(maj, 10, 8)
	if err != nil {
		return Version{}, fmt.Errorf("%w %q: %v", ErrInvalidVersion, s, err)
	}
	minor, err := strconv.ParseUint(min, 10, 8)
	if err != nil {
		return Version{}, fmt.Errorf("%w %q: %v", ErrInvalidVersion, s, err)
	}
	return Version{Major: uint8(major), Minor: uint8(minor)}, nil
}

// Less reports whether v is older than b.
func (v Version) Less(b Version) bool {
	if v.Major != b.Major {
		return v.Major < b.Major
	}
	return v.Minor < b.Minor
}

func (v Version) String() string {
	return strconv.Itoa(int(v.Major)) + "." + strconv.Itoa(int(v.Minor))
}
