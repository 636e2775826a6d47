// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package event

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Handler responds to a value published on a Signal.
type Handler[T any] interface {
	HandleEvent(T) error
}

// HandlerFunc is an adapter that allows the use of ordinary functions as
// signal handlers.
type HandlerFunc[T any] func(T) error

// HandleEvent calls f(v).
func (f HandlerFunc[T]) HandleEvent(v T) error {
	return f(v)
}

// Signal is a named publish/subscribe point carrying values of type T.
// The zero value is a usable unnamed signal that logs to the logrus standard
// logger.
//
// Signals are not safe for concurrent use.
type Signal[T any] struct {
	name     string
	log      logrus.FieldLogger
	handlers []Handler[T]
}

// New returns a signal with the provided name that reports failing handlers
// to log.
// If log is nil the logrus standard logger is used.
func New[T any](name string, log logrus.FieldLogger) *Signal[T] {
	return &Signal[T]{name: name, log: log}
}

// Name returns the name the signal was created with.
func (s *Signal[T]) Name() string {
	return s.name
}

// Len returns the number of subscribed handlers.
func (s *Signal[T]) Len() int {
	return len(s.handlers)
}

// Subscribe adds h to the end of the handler list.
// Subscribe panics if h is nil.
func (s *Signal[T]) Subscribe(h Handler[T]) {
	if h == nil {
		panic("event: nil handler subscribed to " + s.name)
	}
	s.handlers = append(s.handlers, h)
}

// SubscribeFunc adds f to the end of the handler list.
func (s *Signal[T]) SubscribeFunc(f func(T) error) {
	if f == nil {
		panic("event: nil handler subscribed to " + s.name)
	}
	s.Subscribe(HandlerFunc[T](f))
}

// Clear removes all subscribed handlers.
func (s *Signal[T]) Clear() {
	s.handlers = nil
}

// Publish calls every subscribed handler with v, in subscription order, and
// returns the number of handlers that completed without an error.
// Handlers subscribed while publishing are not called until the next Publish.
func (s *Signal[T]) Publish(v T) int {
	handlers := s.handlers
	var ok int
	for i, h := range handlers {
		if err := s.call(h, v); err != nil {
			s.logger().WithFields(logrus.Fields{
				"signal":  s.name,
				"handler": i,
			}).WithError(err).Warn("event handler failed")
			continue
		}
		ok++
	}
	return ok
}

func (s *Signal[T]) call(h Handler[T], v T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Signal: s.name, Value: r}
		}
	}()
	return h.HandleEvent(v)
}

func (s *Signal[T]) logger() logrus.FieldLogger {
	if s.log == nil {
		return logrus.StandardLogger()
	}
	return s.log
}

// PanicError is reported in place of a handler that panicked.
type PanicError struct {
	Signal string
	Value  interface{}
}

// Error satisfies the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("event: handler for %s panicked: %v", e.Signal, e.Value)
}
