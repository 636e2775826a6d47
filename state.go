// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"errors"
	"strconv"
)

// State is the lifecycle state of a stream.
type State uint8

const (
	// Idle is the state of a stream before a stream header has been read.
	Idle State = iota

	// Open is entered when a stream header is read.
	Open

	// Authenticated is entered when SASL negotiation succeeds.
	Authenticated

	// Ready is entered when the connection reports that it can be written to
	// after the stream has been opened.
	Ready

	// Closed is entered when the peer closes the stream.
	// The stream stays closed until it is reset.
	Closed
)

var stateNames = [...]string{
	Idle:          "Idle",
	Open:          "Open",
	Authenticated: "Authenticated",
	Ready:         "Ready",
	Closed:        "Closed",
}

func (s State) valid() bool {
	return int(s) < len(stateNames)
}

// String returns the name of the state.
func (s State) String() string {
	if !s.valid() {
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
	return stateNames[s]
}

// ParseState returns the state with the provided name.
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if n == name {
			return State(i), nil
		}
	}
	return Idle, &InvalidStateError{Name: name}
}

// ErrInvalidState is wrapped by errors returned when an unknown state is used.
var ErrInvalidState = errors.New("xmpp: invalid stream state")

// InvalidStateError is returned when a value that is not one of the defined
// states is used as a state.
type InvalidStateError struct {
	// Name is the name that was looked up, if any.
	Name string

	// State is the invalid value, if the error was not the result of a lookup.
	State State
}

// Error satisfies the error interface.
func (e *InvalidStateError) Error() string {
	if e.Name != "" {
		return "xmpp: invalid stream state " + strconv.Quote(e.Name)
	}
	return "xmpp: invalid stream state " + e.State.String()
}

// Unwrap returns ErrInvalidState.
func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}
