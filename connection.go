// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

// Connection is the transport a stream reads from and writes to.
//
// Send queues data for writing and must not block.
// Receive returns the next chunk of data that has been read or an error that
// wraps transport.ErrEmpty if nothing is waiting.
// Implementations are expected to report socket errors through their own
// lifecycle notifications.
type Connection interface {
	Send(p []byte) error
	Receive() ([]byte, error)
	Disconnect() error
}

// Notifier is implemented by connections that report when they are ready to be
// read from or written to.
// When a stream is created with a Connection that is also a Notifier, the
// stream registers its HandleReadable and HandleWritable methods.
type Notifier interface {
	OnReadyToRead(f func())
	OnReadyToWrite(f func())
}
